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

// Package mapper performs the 1:1 column copy from a source table into the
// destination shape declared by a template.
package mapper

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/pkg/report"
	"github.com/walteh/sheetmap/pkg/table"
	"github.com/walteh/sheetmap/pkg/template"
)

// ErrSourceColumnMissing marks a declared source header that the input does
// not have
var ErrSourceColumnMissing = errors.Base("source column not found")

// 🔄 CopyByHeader builds a table with exactly the destination columns of
// headerMap and as many rows as src. Each destination column is filled from
// its source column; a missing source column leaves the destination absent and
// is reported as a diagnostic instead of failing the mapping.
func CopyByHeader(ctx context.Context, src *table.Table, headerMap template.HeaderMap) (*table.Table, report.Diagnostics) {
	logger := zerolog.Ctx(ctx)

	dest := table.New(headerMap.Destinations()...)
	dest.Grow(src.Len())

	var diags report.Diagnostics
	for _, m := range headerMap {
		if !src.HasColumn(m.Source) {
			err := errors.WithDetails(ErrSourceColumnMissing, "source", m.Source, "destination", m.Destination)
			logger.Warn().Str("source", m.Source).Str("destination", m.Destination).Msg("source column not found, leaving destination empty")
			diags = append(diags, report.Diagnostic{
				Stage:   report.StageMapping,
				Subject: m.Source + " → " + m.Destination,
				Err:     err,
			})
			continue
		}

		for i, r := range src.Rows() {
			dest.Row(i).Put(m.Destination, r.Get(m.Source))
		}
		logger.Trace().Str("source", m.Source).Str("destination", m.Destination).Msg("column copied")
	}

	logger.Debug().
		Int("rows", dest.Len()).
		Int("columns", len(dest.Columns())).
		Int("missing", len(diags)).
		Msg("header mapping complete")

	return dest, diags
}
