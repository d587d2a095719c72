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
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/cmd/sheetmap/opts"
	"github.com/walteh/sheetmap/pkg/config"
	"github.com/walteh/sheetmap/pkg/job"
	"github.com/walteh/sheetmap/pkg/template"
)

// runFlags are the flags of the run command
type runFlags struct {
	templatePath string
	templateName string
	output       string
	outputDir    string
	jobs         int
}

// fill takes every flag the user did not set from the settings file
func (f *runFlags) fill(cmd *cobra.Command, s *config.Settings) {
	if s == nil {
		return
	}
	changed := cmd.Flags().Changed
	if !changed("templates") && s.TemplatePath != "" {
		f.templatePath = s.TemplatePath
	}
	if !changed("name") && s.TemplateName != "" {
		f.templateName = s.TemplateName
	}
	if !changed("output-dir") && !changed("output") && s.OutputDir != "" {
		f.outputDir = s.OutputDir
	}
	if !changed("jobs") && s.Jobs > 0 {
		f.jobs = s.Jobs
	}
}

func (f *runFlags) validate() error {
	if f.templatePath == "" {
		return errors.Errorf("no template file: pass --templates or set template_path")
	}
	if f.templateName == "" {
		return errors.Errorf("no template name: pass --name or set template_name")
	}
	return nil
}

// NewRunCmd creates a new run command
func NewRunCmd(opts *opts.RootOpts) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [flags] INPUT...",
		Short: "Map input sheets through a template",
		Long: `Run maps every input through one template.
It will:
1. Load the named template from the template file
2. Read each input sheet (csv, tsv, txt or xlsx; globs like data/**/*.xlsx work)
3. Copy the mapped columns into the template's output shape
4. Apply the template's post-processing steps in order
5. Write "<input> -- <template>.<ext>" next to the input or into --output-dir

Missing source columns and failing or unknown steps are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			flags.fill(cmd, opts.Settings)
			if err := flags.validate(); err != nil {
				return err
			}

			tpl, err := template.LoadTemplate(ctx, flags.templatePath, flags.templateName)
			if err != nil {
				return errors.Errorf("loading template: %w", err)
			}

			inputs, err := job.Expand(args)
			if err != nil {
				return errors.Errorf("resolving inputs: %w", err)
			}

			runner := job.NewRunner(job.Options{
				Template:   tpl,
				Resolver:   opts.Registry,
				OutputDir:  flags.outputDir,
				OutputPath: flags.output,
			}, flags.jobs, opts.UserLogger)

			results, err := runner.RunAll(ctx, inputs)
			if err != nil {
				return err
			}

			problems := 0
			for _, res := range results {
				problems += len(res.Diagnostics())
			}
			opts.UserLogger.LogValidation(problems == 0,
				fmt.Sprintf("Mapped %d input(s) with %s@%s, %d recoverable problem(s)", len(results), tpl.Name, tpl.Version, problems),
				nil)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.templatePath, "templates", "t", "", "template file (.json, .yaml, .yml or .hcl)")
	cmd.Flags().StringVarP(&flags.templateName, "name", "n", "", "template to apply")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file, only with a single input")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "directory for exports (default: next to each input)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 1, "number of inputs processed at once")
	cmd.MarkFlagsMutuallyExclusive("output", "output-dir")

	return cmd
}
