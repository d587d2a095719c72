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
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/cmd/sheetmap/opts"
	"github.com/walteh/sheetmap/pkg/template"
)

// NewTemplatesCmd creates a new templates command
func NewTemplatesCmd(opts *opts.RootOpts) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the templates of a template file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("templates") && opts.Settings != nil && opts.Settings.TemplatePath != "" {
				path = opts.Settings.TemplatePath
			}
			if path == "" {
				return errors.Errorf("no template file: pass --templates or set template_path")
			}

			file, err := template.Load(cmd.Context(), path)
			if err != nil {
				return errors.Errorf("loading templates: %w", err)
			}

			data := pterm.TableData{{"Name", "Version", "Columns", "Steps"}}
			for _, t := range file.Templates() {
				data = append(data, []string{t.Name, t.Version, strconv.Itoa(len(t.HeaderMap)), strconv.Itoa(len(t.PostProcesses))})
			}
			return opts.UserLogger.LogTable(data)
		},
	}

	cmd.Flags().StringVarP(&path, "templates", "t", "", "template file (.json, .yaml, .yml or .hcl)")
	return cmd
}
