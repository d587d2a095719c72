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
	"bytes"
	"context"
	"encoding/json"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/pkg/table"
	"github.com/walteh/sheetmap/pkg/tags"
)

// 🎯 PadTarget is one target column and the tags it accepts
type PadTarget struct {
	Target string
	Valid  tags.Set
}

// UnmarshalJSON accepts [target, valid] or {"target": ..., "valid": ...}
// where valid is a list of tags or an object whose values are the tags
func (t *PadTarget) UnmarshalJSON(data []byte) error {
	var (
		target string
		valid  json.RawMessage
	)

	data = bytes.TrimSpace(data)
	switch {
	case len(data) > 0 && data[0] == '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return errors.Errorf("map_config entry: expected [target, valid tags], got %d item(s)", len(pair))
		}
		if err := json.Unmarshal(pair[0], &target); err != nil {
			return errors.Errorf("map_config target: %w", err)
		}
		valid = pair[1]
	case len(data) > 0 && data[0] == '{':
		var obj struct {
			Target string          `json:"target"`
			Valid  json.RawMessage `json:"valid"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		target, valid = obj.Target, obj.Valid
	default:
		return errors.Errorf("map_config entry: expected list or object")
	}

	set, err := validTags(valid)
	if err != nil {
		return errors.Errorf("map_config %q: %w", target, err)
	}
	t.Target, t.Valid = target, set
	return nil
}

func validTags(data json.RawMessage) (tags.Set, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var dict map[string]string
		if err := json.Unmarshal(data, &dict); err != nil {
			return nil, err
		}
		set := tags.NewSet()
		for _, v := range dict {
			set.Add(v)
		}
		return set, nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return tags.NewSet(list...), nil
}

// PadParams configures pad_tags
type PadParams struct {
	CheckHeaders Columns     `json:"check_headers"`
	MapConfig    []PadTarget `json:"map_config"`
}

// 🧩 PadTags copies tags found in any check column into every target column
// whose valid set contains them. Validity is case-sensitive. Missing target
// columns are created blank, missing check columns contribute nothing.
func PadTags(ctx context.Context, tbl *table.Table, p PadParams) error {
	if len(p.CheckHeaders) == 0 {
		return requireArg("check_headers", "")
	}
	for _, mc := range p.MapConfig {
		if err := requireArg("map_config target", mc.Target); err != nil {
			return err
		}
		if tbl.AddColumn(mc.Target) {
			for _, r := range tbl.Rows() {
				r.Set(mc.Target, "")
			}
		}
	}

	for _, r := range tbl.Rows() {
		var found []string
		for _, ch := range p.CheckHeaders {
			found = tags.Merge(found, tags.Parse(r.Get(ch).Text))
		}
		if len(found) == 0 {
			continue
		}

		for _, mc := range p.MapConfig {
			var add []string
			for _, t := range found {
				if mc.Valid.Has(t) {
					add = append(add, t)
				}
			}
			existing := tags.Parse(r.Get(mc.Target).Text)
			r.Set(mc.Target, tags.Serialize(tags.Merge(existing, add)))
		}
	}
	return nil
}

// DedupeParams configures dedupe_tags
type DedupeParams struct {
	DedupeHeaders Columns `json:"dedupe_headers"`
}

// 🧹 DedupeTags drops repeated tags in every cell of the configured columns.
// Absent cells become blank.
func DedupeTags(ctx context.Context, tbl *table.Table, p DedupeParams) error {
	if len(p.DedupeHeaders) == 0 {
		return requireArg("dedupe_headers", "")
	}
	if err := requireColumns(tbl, p.DedupeHeaders...); err != nil {
		return err
	}

	for _, col := range p.DedupeHeaders {
		tbl.Apply(col, func(c table.Cell) table.Cell {
			return table.Text(tags.Serialize(tags.Dedupe(tags.Parse(c.Text))))
		})
	}
	return nil
}
