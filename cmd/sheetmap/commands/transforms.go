// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/walteh/sheetmap/cmd/sheetmap/opts"
)

// NewTransformsCmd creates a new transforms command
func NewTransformsCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "transforms",
		Short: "List the post-processing steps templates can use",
		Long: `Transforms lists every registered post-processing step. Templates refer to
a step by its id or by its name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := pterm.TableData{{"ID", "Name"}}
			for _, e := range opts.Registry.List() {
				data = append(data, []string{strconv.Itoa(e.ID), e.Transform.Name()})
			}
			return opts.UserLogger.LogTable(data)
		},
	}
}
