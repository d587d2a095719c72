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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger gives operators readable feedback about a run while mirroring
// every line to zerolog
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
}

// 🎯 NewUserLogger creates a user logger writing to stdout
func NewUserLogger(ctx context.Context) *UserLogger {
	return NewUserLoggerTo(ctx, os.Stdout)
}

// 🎯 NewUserLoggerTo creates a user logger writing to out
func NewUserLoggerTo(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style}).WithWriter(u.out)
}

// 📦 LogRunStart announces one input being processed with a template
func (u *UserLogger) LogRunStart(input, template, version string) {
	msg := fmt.Sprintf("Mapping %s with %s@%s", input, template, version)
	u.printer(pterm.Info, "📦").Println(msg)
	u.log.Info().Str("input", input).Str("template", template).Str("version", version).Msg("starting run")
}

// 🧾 LogStep prints one formatted pipeline step
func (u *UserLogger) LogStep(s StepLine) {
	fmt.Fprintln(u.out, FormatStep(s))
	ev := u.log.Debug()
	if s.Status != "applied" {
		ev = u.log.Warn()
	}
	ev.Int("step", s.Index).Str("transform", s.Name).Str("status", s.Status).Str("detail", s.Detail).Msg("pipeline step")
}

// ⚠️ LogDiagnostics prints the recoverable problems of a run
func (u *UserLogger) LogDiagnostics(ds Diagnostics) {
	if len(ds) == 0 {
		return
	}
	u.printer(pterm.Warning, "⚠️").Printfln("%d recoverable problem(s)", len(ds))
	for _, d := range ds {
		fmt.Fprintln(u.out, FormatDiagnostic(d))
		u.log.Warn().Str("stage", string(d.Stage)).Str("subject", d.Subject).AnErr("reason", d.Err).Msg("skipped")
	}
	fmt.Fprintln(u.out)
}

// ✨ LogExport reports a written output file
func (u *UserLogger) LogExport(path string, rows int) {
	msg := fmt.Sprintf("Wrote %d row(s) to %s", rows, path)
	u.printer(pterm.Success, "✨").Println(msg)
	u.log.Info().Str("path", path).Int("rows", rows).Msg("export complete")
}

// 🔍 LogValidation logs a pass/fail outcome
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		u.printer(pterm.Error, "❌").Println(description)
		pterm.Error.WithWriter(u.out).Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	u.printer(pterm.Warning, "⚠️").Println(description)
	u.log.Warn().Msg(description)
}

// 📊 LogTable renders rows as a boxed table, the first row being the header
func (u *UserLogger) LogTable(data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithWriter(u.out).WithData(data).Render()
}
