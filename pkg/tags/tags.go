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

// Package tags parses and serializes delimited multi-value cells such as
// "Rock;Pop; Jazz". Malformed input never fails, it just yields fewer tags.
package tags

import "strings"

// Delimiter separates tags inside a cell
const Delimiter = ";"

// 🔍 Parse splits raw on the default delimiter
func Parse(raw string) []string {
	return ParseWith(raw, Delimiter)
}

// 🔍 ParseWith splits raw on delim, trims every part and drops empty parts.
// Order and duplicates are preserved. Blank input yields an empty list.
func ParseWith(raw, delim string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, delim)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// 📝 Serialize joins tags with the default delimiter
func Serialize(tags []string) string {
	return strings.Join(tags, Delimiter)
}

// 📝 SerializeWith joins tags with delim; an empty list gives ""
func SerializeWith(tags []string, delim string) string {
	return strings.Join(tags, delim)
}

// Set is a tag membership set. Matching is exact and case-sensitive.
type Set map[string]struct{}

// 🏭 NewSet builds a set from tags
func NewSet(tags ...string) Set {
	s := make(Set, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports membership
func (s Set) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Add inserts tags
func (s Set) Add(tags ...string) {
	for _, t := range tags {
		s[t] = struct{}{}
	}
}

// 🧹 Dedupe drops repeated tags, keeping the first occurrence
func Dedupe(tags []string) []string {
	seen := make(Set, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if seen.Has(t) {
			continue
		}
		seen.Add(t)
		out = append(out, t)
	}
	return out
}

// 🔀 Merge returns dest followed by every tag of src that is not in dest yet,
// in src order. Duplicates already inside dest are left alone.
func Merge(dest, src []string) []string {
	seen := NewSet(dest...)
	out := make([]string, len(dest), len(dest)+len(src))
	copy(out, dest)
	for _, t := range src {
		if seen.Has(t) {
			continue
		}
		seen.Add(t)
		out = append(out, t)
	}
	return out
}

// ✂️ Remove drops every tag found in drop, keeping the order of the rest
func Remove(tags []string, drop Set) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !drop.Has(t) {
			out = append(out, t)
		}
	}
	return out
}
