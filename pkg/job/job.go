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

// Package job wires one run together: read the input sheet, map it through a
// template, run the post-processing steps and write the result. Fatal errors
// are returned before anything is written.
package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/pkg/mapper"
	"github.com/walteh/sheetmap/pkg/pipeline"
	"github.com/walteh/sheetmap/pkg/report"
	"github.com/walteh/sheetmap/pkg/sheet"
	"github.com/walteh/sheetmap/pkg/template"
)

// 🔧 Options configure a run
type Options struct {
	// Template is the mapping to apply
	Template *template.Template
	// Resolver finds the post-processing transforms
	Resolver pipeline.Resolver
	// OutputDir is where exports go, the input's directory when empty
	OutputDir string
	// OutputPath overrides the generated export path of a single input
	OutputPath string
}

func (o Options) validate() error {
	if o.Template == nil {
		return errors.Errorf("template is required")
	}
	if o.Resolver == nil {
		return errors.Errorf("resolver is required")
	}
	return nil
}

// outputFor returns the export path of input
func (o Options) outputFor(input string) string {
	if o.OutputPath != "" {
		return o.OutputPath
	}
	return sheet.OutputPath(input, o.OutputDir, o.Template.Name)
}

// 📋 Result is the outcome of one input
type Result struct {
	RunID    string // correlates the log lines of one input
	Input    string
	Output   string
	Rows     int
	Mapping  report.Diagnostics
	Pipeline *pipeline.Report
	Export   report.Diagnostics
	Duration time.Duration
	Err      error // fatal error, nothing was written
}

// 🩺 Diagnostics returns every recoverable problem of the run in stage order
func (r *Result) Diagnostics() report.Diagnostics {
	var ds report.Diagnostics
	ds = append(ds, r.Mapping...)
	if r.Pipeline != nil {
		ds = append(ds, r.Pipeline.Diagnostics()...)
	}
	ds = append(ds, r.Export...)
	return ds
}

// 🚀 Run processes one input sheet
func Run(ctx context.Context, input string, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{RunID: uuid.New().String(), Input: input, Output: opts.outputFor(input)}

	logger := zerolog.Ctx(ctx).With().
		Str("run_id", res.RunID).
		Str("input", input).
		Str("template", opts.Template.Name).
		Logger()
	ctx = logger.WithContext(ctx)

	src, err := sheet.Read(ctx, input)
	if err != nil {
		res.Err = errors.Errorf("loading input: %w", err)
		return res, res.Err
	}

	mapped, diags := mapper.CopyByHeader(ctx, src, opts.Template.HeaderMap)
	res.Mapping = diags

	out, rep := pipeline.New(opts.Resolver).Run(ctx, mapped, opts.Template.PostProcesses)
	res.Pipeline = rep

	if out.Len() == 0 {
		res.Export = append(res.Export, report.Diagnostic{
			Stage:   report.StageExport,
			Subject: res.Output,
			Err:     errors.New("input has no data rows, writing header only"),
		})
	}

	if err := sheet.Write(ctx, res.Output, out); err != nil {
		res.Err = errors.Errorf("exporting: %w", err)
		return res, res.Err
	}

	res.Rows = out.Len()
	res.Duration = time.Since(start)

	logger.Info().
		Str("output", res.Output).
		Int("rows", res.Rows).
		Int("steps_applied", rep.Count(pipeline.StatusApplied)).
		Int("diagnostics", len(res.Diagnostics())).
		Dur("duration", res.Duration).
		Msg("run complete")

	return res, nil
}
