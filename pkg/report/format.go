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

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	stepIndent  = 4  // spaces to indent step entries
	indexWidth  = 4  // width for the step number
	nameWidth   = 28 // width for the transform name
	statusWidth = 10 // width for status text
)

// 🎯 StepLine is what the console needs to know about one pipeline step
type StepLine struct {
	Index  int    // 1-based position in the template
	Name   string // transform name or unresolved id
	Status string // applied / skipped / failed
	Detail string // error text for skipped and failed steps
}

// 🎯 FormatStep formats a pipeline step for display
func FormatStep(s StepLine) string {
	var prefix string
	switch s.Status {
	case "applied":
		prefix = color.GreenString("✓")
	case "failed":
		prefix = color.RedString("✗")
	case "skipped":
		prefix = color.YellowString("⤼")
	default:
		prefix = color.HiBlackString("-")
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", stepIndent),
		prefix,
		fmt.Sprintf("%-*s", indexWidth, fmt.Sprintf("#%d", s.Index)),
		fmt.Sprintf("%-*s", nameWidth, s.Name),
		fmt.Sprintf("%-*s", statusWidth, s.Status),
	)
	if s.Detail != "" {
		line += color.New(color.Faint).Sprint(s.Detail)
	}
	return strings.TrimRight(line, " ")
}

// 🎯 FormatDiagnostic formats a recoverable problem for display
func FormatDiagnostic(d Diagnostic) string {
	stage := color.New(color.FgCyan).Sprintf("%-*s", statusWidth, string(d.Stage))
	msg := color.New(color.Bold).Sprint(d.Subject)
	if d.Err != nil {
		msg += " " + color.New(color.Faint).Sprint(d.Err.Error())
	}
	return fmt.Sprintf("%s%s %s %s", strings.Repeat(" ", stepIndent), color.YellowString("⚠"), stage, msg)
}
