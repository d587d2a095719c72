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

package job

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/sheetmap/pkg/report"
)

var (
	// ErrNoInputs is returned when the input patterns match nothing
	ErrNoInputs = errors.Base("no input files")

	// ErrOutputConflict is returned when two inputs would write the same file
	ErrOutputConflict = errors.Base("output path conflict")
)

// 🔍 Expand resolves input arguments into file paths. Arguments with glob
// metacharacters are matched with doublestar ("data/**/*.xlsx"); plain paths
// are kept as given. The result keeps argument order and drops repeats.
func Expand(args []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if key := filepath.Clean(p); !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))
		if !hasMeta(pattern) {
			add(arg)
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid input pattern %q", arg)
		}

		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("matching %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("%w: %q matched nothing under %s", ErrNoInputs, arg, base)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoInputs
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// 🏃 Runner processes several inputs with the same options, at most jobs at a
// time. Every input is read, mapped and written on its own.
type Runner struct {
	opts Options
	jobs int
	ul   *report.UserLogger

	mu sync.Mutex // serializes console output of finished inputs
}

// 🏗️ NewRunner creates a runner. jobs below 1 means 1. ul may be nil.
func NewRunner(opts Options, jobs int, ul *report.UserLogger) *Runner {
	return &Runner{
		opts: opts,
		jobs: max(jobs, 1),
		ul:   ul,
	}
}

// 🚀 RunAll runs every input and returns one result per input in input order.
// One failing input never stops the others. The error reports how many
// inputs failed and wraps the first failure.
func (r *Runner) RunAll(ctx context.Context, inputs []string) ([]*Result, error) {
	if err := r.opts.validate(); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	if err := r.checkOutputs(inputs); err != nil {
		return nil, err
	}

	results := make([]*Result, len(inputs))

	var g errgroup.Group
	g.SetLimit(r.jobs)
	for i, input := range inputs {
		g.Go(func() error {
			res, err := Run(ctx, input, r.opts)
			if res == nil {
				res = &Result{Input: input, Err: err}
			}
			results[i] = res
			r.print(res)
			return nil
		})
	}
	_ = g.Wait()

	var (
		first  error
		failed int
	)
	for _, res := range results {
		if res.Err != nil {
			failed++
			if first == nil {
				first = errors.Errorf("%s: %w", res.Input, res.Err)
			}
		}
	}

	zerolog.Ctx(ctx).Debug().Int("inputs", len(inputs)).Int("failed", failed).Int("jobs", r.jobs).Msg("batch complete")

	if first != nil {
		return results, errors.Errorf("%d of %d input(s) failed: %w", failed, len(inputs), first)
	}
	return results, nil
}

// checkOutputs rejects runs where two inputs would overwrite each other
func (r *Runner) checkOutputs(inputs []string) error {
	if r.opts.OutputPath != "" && len(inputs) > 1 {
		return errors.Errorf("%w: an explicit output path needs exactly one input, got %d", ErrOutputConflict, len(inputs))
	}
	owner := map[string]string{}
	for _, in := range inputs {
		out := filepath.Clean(r.opts.outputFor(in))
		if prev, ok := owner[out]; ok {
			return errors.Errorf("%w: %s and %s both write %s", ErrOutputConflict, prev, in, out)
		}
		owner[out] = in
	}
	return nil
}

// print writes the console summary of one finished input
func (r *Runner) print(res *Result) {
	if r.ul == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ul.LogRunStart(res.Input, r.opts.Template.Name, r.opts.Template.Version)
	if res.Pipeline != nil {
		for _, line := range res.Pipeline.Lines() {
			r.ul.LogStep(line)
		}
	}
	r.ul.LogDiagnostics(res.Diagnostics())
	if res.Err != nil {
		r.ul.LogValidation(false, "Failed "+res.Input, res.Err)
		return
	}
	r.ul.LogExport(res.Output, res.Rows)
}
