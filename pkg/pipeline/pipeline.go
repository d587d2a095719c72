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

// Package pipeline runs the post-processing steps of a template against a
// working table. A step that cannot be resolved or that fails is recorded and
// skipped; the executor itself never aborts a run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/pkg/report"
	"github.com/walteh/sheetmap/pkg/table"
	"github.com/walteh/sheetmap/pkg/template"
	"github.com/walteh/sheetmap/pkg/transform"
)

var (
	// ErrPanicked wraps a panic raised inside a transform
	ErrPanicked = errors.Base("transform panicked")

	// ErrNoTable is returned when a transform succeeds without returning a table
	ErrNoTable = errors.Base("transform returned no table")
)

// 🔍 Resolver finds the transform behind a template identifier
type Resolver interface {
	Lookup(key string) (transform.Transform, error)
}

// Status is the outcome of one step
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// 📋 StepResult records what happened to one invocation
type StepResult struct {
	Index      int // 1-based position in the template
	Invocation template.Invocation
	Transform  string // resolved transform name, empty when unresolved
	Status     Status
	Err        error
}

// 📝 Line converts the result for console display
func (s StepResult) Line() report.StepLine {
	name := s.Transform
	if name == "" {
		name = s.Invocation.Label()
	} else if s.Invocation.Name != "" && s.Invocation.Name != name {
		name = fmt.Sprintf("%s (%s)", s.Invocation.Name, name)
	}
	line := report.StepLine{Index: s.Index, Name: name, Status: string(s.Status)}
	if s.Err != nil {
		line.Detail = s.Err.Error()
	}
	return line
}

// 🧾 Report is the ordered list of step results of one run
type Report struct {
	Steps []StepResult
}

// Count returns the number of steps with the given status
func (r *Report) Count(status Status) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// 🩺 Diagnostics returns one pipeline diagnostic per step that was not applied
func (r *Report) Diagnostics() report.Diagnostics {
	var ds report.Diagnostics
	for _, s := range r.Steps {
		if s.Status == StatusApplied {
			continue
		}
		ds = append(ds, report.Diagnostic{
			Stage:   report.StagePipeline,
			Subject: s.Line().Name,
			Err:     s.Err,
		})
	}
	return ds
}

// Lines returns the console lines of every step
func (r *Report) Lines() []report.StepLine {
	out := make([]report.StepLine, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Line()
	}
	return out
}

// ⚙️ Executor runs invocations in declared order
type Executor struct {
	resolver Resolver
}

// 🏭 New creates an executor resolving transforms through resolver
func New(resolver Resolver) *Executor {
	return &Executor{resolver: resolver}
}

// 🚀 Run applies every invocation to tbl and returns the resulting table. A
// failed step leaves the table as it was before the step. Cancellation is
// checked between steps; once cancelled the remaining steps are skipped.
func (e *Executor) Run(ctx context.Context, tbl *table.Table, invocations []template.Invocation) (*table.Table, *Report) {
	logger := zerolog.Ctx(ctx)
	rep := &Report{Steps: make([]StepResult, 0, len(invocations))}

	for i, inv := range invocations {
		res := StepResult{Index: i + 1, Invocation: inv}

		if err := ctx.Err(); err != nil {
			res.Status, res.Err = StatusSkipped, errors.Errorf("not run: %w", err)
			rep.Steps = append(rep.Steps, res)
			continue
		}

		t, err := e.resolver.Lookup(string(inv.ID))
		if err != nil {
			res.Status, res.Err = StatusSkipped, err
			rep.Steps = append(rep.Steps, res)
			logger.Warn().Err(err).Int("step", res.Index).Str("id", string(inv.ID)).Msg("transform not found, skipping")
			continue
		}
		res.Transform = t.Name()

		out, err := apply(ctx, t, tbl.Clone(), inv.Args)
		if err != nil {
			res.Status, res.Err = StatusFailed, err
			rep.Steps = append(rep.Steps, res)
			logger.Warn().Err(err).Int("step", res.Index).Str("transform", res.Transform).Msg("transform failed, table left unchanged")
			continue
		}

		tbl = out
		res.Status = StatusApplied
		rep.Steps = append(rep.Steps, res)
		logger.Debug().Int("step", res.Index).Str("transform", res.Transform).Msg("transform applied")
	}

	return tbl, rep
}

// apply calls t on work and turns panics into errors
func apply(ctx context.Context, t transform.Transform, work *table.Table, args map[string]any) (out *table.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, errors.Errorf("%w: %v", ErrPanicked, r)
		}
	}()

	out, err = t.Apply(ctx, work, args)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.Errorf("%s: %w", t.Name(), ErrNoTable)
	}
	return out, nil
}
