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

package mapper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/pkg/report"
	"github.com/walteh/sheetmap/pkg/table"
	"github.com/walteh/sheetmap/pkg/template"
)

func source() *table.Table {
	src := table.New("Song Title", "Version", "Artist", "Unused")
	src.Append(table.Row{"Song Title": table.Text("Song"), "Version": table.Text("Main"), "Artist": table.Text("A")})
	src.Append(table.Row{"Song Title": table.Text("Song"), "Version": table.Text("live")})
	return src
}

func TestCopyByHeader(t *testing.T) {
	tests := []struct {
		name      string
		headerMap template.HeaderMap
		wantCols  []string
		wantDiags int
		check     func(t *testing.T, out *table.Table)
	}{
		{
			name: "all_present",
			headerMap: template.HeaderMap{
				{Source: "Version", Destination: "version"},
				{Source: "Song Title", Destination: "title"},
			},
			wantCols: []string{"version", "title"},
			check: func(t *testing.T, out *table.Table) {
				require.Equal(t, 2, out.Len())
				assert.Equal(t, []table.Cell{table.Text("Main"), table.Text("live")}, out.Column("version"))
				assert.Equal(t, []table.Cell{table.Text("Song"), table.Text("Song")}, out.Column("title"))
			},
		},
		{
			name: "absent_cells_stay_absent",
			headerMap: template.HeaderMap{
				{Source: "Artist", Destination: "artist"},
			},
			wantCols: []string{"artist"},
			check: func(t *testing.T, out *table.Table) {
				assert.Equal(t, []table.Cell{table.Text("A"), table.Absent}, out.Column("artist"))
			},
		},
		{
			name: "missing_source_is_recoverable",
			headerMap: template.HeaderMap{
				{Source: "Nope", Destination: "first"},
				{Source: "Song Title", Destination: "title"},
				{Source: "Also Nope", Destination: "last"},
			},
			wantCols:  []string{"first", "title", "last"},
			wantDiags: 2,
			check: func(t *testing.T, out *table.Table) {
				require.Equal(t, 2, out.Len(), "rows should still come from the source")
				assert.Equal(t, []table.Cell{table.Absent, table.Absent}, out.Column("first"))
				assert.Equal(t, []table.Cell{table.Text("Song"), table.Text("Song")}, out.Column("title"))
			},
		},
		{
			name:      "empty_map",
			headerMap: template.HeaderMap{},
			wantCols:  []string{},
			check: func(t *testing.T, out *table.Table) {
				assert.Equal(t, 2, out.Len())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diags := CopyByHeader(context.Background(), source(), tt.headerMap)

			assert.Equal(t, tt.wantCols, out.Columns(), "columns should equal declared destinations")
			assert.Len(t, diags, tt.wantDiags)
			for _, d := range diags {
				assert.Equal(t, report.StageMapping, d.Stage)
				assert.True(t, errors.Is(d.Err, ErrSourceColumnMissing))
			}
			if tt.check != nil {
				tt.check(t, out)
			}
		})
	}
}

func TestCopyByHeaderDoesNotAliasSource(t *testing.T) {
	src := source()
	out, _ := CopyByHeader(context.Background(), src, template.HeaderMap{{Source: "Version", Destination: "v"}})
	out.Row(0).Set("v", "changed")
	assert.Equal(t, "Main", src.Row(0).Get("Version").Text)
}
