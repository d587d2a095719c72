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
	"github.com/walteh/sheetmap/pkg/tags"
)

// AltParams configures expand_main_tags_to_alts
type AltParams struct {
	CopyHeaders Columns `json:"copy_headers"`
	TitleHeader string  `json:"title_header"`
	TypeHeader  string  `json:"type_header"`
}

// isMain reports whether a track type cell marks the canonical row
func isMain(c table.Cell) bool {
	return c.Present && strings.ToLower(strings.TrimSpace(c.Text)) == "main"
}

// 🌿 GroupRows returns row indexes grouped by the exact value of column, in
// order of first appearance. All rows without a value share one group.
func GroupRows(tbl *table.Table, column string) [][]int {
	index := map[table.Cell]int{}
	var groups [][]int
	for i, r := range tbl.Rows() {
		key := r.Get(column)
		g, ok := index[key]
		if !ok {
			g = len(groups)
			index[key] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// 🌿 ExpandMainTagsToAlts merges the tags of each title group's main row into
// the other rows of the group. The first main row of a group is canonical;
// later main rows are left as they are. Groups without a main row are
// untouched.
func ExpandMainTagsToAlts(ctx context.Context, tbl *table.Table, p AltParams) error {
	if err := requireArg("title_header", p.TitleHeader); err != nil {
		return err
	}
	if err := requireArg("type_header", p.TypeHeader); err != nil {
		return err
	}
	if err := requireColumns(tbl, append(Columns{p.TitleHeader, p.TypeHeader}, p.CopyHeaders...)...); err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx)
	rows := tbl.Rows()
	expanded := 0

	for _, group := range GroupRows(tbl, p.TitleHeader) {
		main := -1
		for _, i := range group {
			if isMain(rows[i].Get(p.TypeHeader)) {
				main = i
				break
			}
		}
		if main < 0 {
			continue
		}

		canonical := rows[main]
		for _, i := range group {
			if i == main || isMain(rows[i].Get(p.TypeHeader)) {
				continue
			}
			for _, col := range p.CopyHeaders {
				merged := tags.Merge(tags.Parse(rows[i].Get(col).Text), tags.Parse(canonical.Get(col).Text))
				rows[i].Set(col, tags.Serialize(merged))
			}
			expanded++
		}
	}

	logger.Debug().Int("alternates", expanded).Msg("main tags expanded to alternates")
	return nil
}
