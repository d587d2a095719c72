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

package transform

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/sheetmap/pkg/table"
)

// illegalChars are removed by strip_illegal_chars
var illegalChars = strings.NewReplacer(
	"!", "", `"`, "", "$", "", "(", "", ")", "", "*", "", ",", "",
	"/", "", ":", "", "<", "", ">", "", "?", "",
	"[", "", "]", "", "{", "", "|", "", "}", "", "'", "",
)

// StripParams configures strip_illegal_chars
type StripParams struct {
	Headers     Columns `json:"headers"`
	StripHeader string  `json:"strip_header"` // older single-column spelling
}

func (p StripParams) columns() Columns {
	cols := append(Columns{}, p.Headers...)
	if p.StripHeader != "" {
		cols = append(cols, p.StripHeader)
	}
	return cols
}

// 🧹 StripIllegal removes the illegal character set from s and trims it
func StripIllegal(s string) string {
	return strings.TrimSpace(illegalChars.Replace(s))
}

// 🧹 StripIllegalChars cleans every present cell of the configured columns
func StripIllegalChars(ctx context.Context, tbl *table.Table, p StripParams) error {
	cols := p.columns()
	if len(cols) == 0 {
		return requireArg("headers", "")
	}
	if err := requireColumns(tbl, cols...); err != nil {
		return err
	}

	for _, col := range cols {
		tbl.Apply(col, func(c table.Cell) table.Cell {
			if !c.Present {
				return c
			}
			return table.Text(StripIllegal(c.Text))
		})
	}

	zerolog.Ctx(ctx).Trace().Strs("headers", cols).Msg("illegal characters stripped")
	return nil
}

// CaseParams configures lowercase
type CaseParams struct {
	Headers Columns `json:"headers"`
}

// 🔡 Lowercase lower-cases every present cell of the configured columns
func Lowercase(ctx context.Context, tbl *table.Table, p CaseParams) error {
	if len(p.Headers) == 0 {
		return requireArg("headers", "")
	}
	if err := requireColumns(tbl, p.Headers...); err != nil {
		return err
	}

	for _, col := range p.Headers {
		tbl.Apply(col, func(c table.Cell) table.Cell {
			if !c.Present {
				return c
			}
			return table.Text(strings.ToLower(c.Text))
		})
	}
	return nil
}
