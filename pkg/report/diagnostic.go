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

package report

import (
	"fmt"
	"strings"
)

// 🎯 Stage names the part of a run a diagnostic came from
type Stage string

const (
	StageMapping  Stage = "mapping"
	StagePipeline Stage = "pipeline"
	StageExport   Stage = "export"
)

// 🩺 Diagnostic describes one recoverable problem: a unit of work that was
// skipped while the run carried on
type Diagnostic struct {
	Stage   Stage  // where it happened
	Subject string // the column or transform that was skipped
	Err     error  // why
}

// 📝 String renders the diagnostic on one line
func (d Diagnostic) String() string {
	if d.Err == nil {
		return fmt.Sprintf("[%s] %s", d.Stage, d.Subject)
	}
	return fmt.Sprintf("[%s] %s: %v", d.Stage, d.Subject, d.Err)
}

// Diagnostics is an ordered list of recoverable problems
type Diagnostics []Diagnostic

// 🔍 ByStage filters diagnostics for one stage
func (ds Diagnostics) ByStage(stage Stage) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Stage == stage {
			out = append(out, d)
		}
	}
	return out
}

// 📝 String renders every diagnostic on its own line
func (ds Diagnostics) String() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
