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
	"math"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrUnknownTransform is returned by Lookup for an identifier that is not in
// the registry
var ErrUnknownTransform = errors.Base("unknown transform")

// 📇 Entry is one registered transform and its stable numeric id
type Entry struct {
	ID        int
	Transform Transform
}

// 🗂️ Registry maps template identifiers onto transforms. It is filled once at
// start-up and only read afterwards.
type Registry struct {
	entries []Entry
	byKey   map[string]Transform
}

// 🏭 NewRegistry builds a registry. Both the id and the name of every entry
// resolve to it.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{byKey: make(map[string]Transform, len(entries)*2)}
	for _, e := range entries {
		id := strconv.Itoa(e.ID)
		for _, key := range []string{id, e.Transform.Name()} {
			if _, dup := r.byKey[key]; dup {
				return nil, errors.Errorf("duplicate transform key %q", key)
			}
			r.byKey[key] = e.Transform
		}
		r.entries = append(r.entries, e)
	}
	sort.SliceStable(r.entries, func(i, j int) bool { return r.entries[i].ID < r.entries[j].ID })
	return r, nil
}

// Option adjusts the default registry
type Option func(*options)

type options struct {
	rules []TriggerRule
}

// WithTriggerRules replaces the static trigger table of filter_instruments
func WithTriggerRules(rules []TriggerRule) Option {
	return func(o *options) {
		o.rules = rules
	}
}

// 🏭 DefaultRegistry returns the closed set of transforms templates can use
func DefaultRegistry(opts ...Option) *Registry {
	o := &options{rules: DefaultTriggerRules}
	for _, opt := range opts {
		opt(o)
	}

	r, err := NewRegistry(
		Entry{ID: 1, Transform: New("strip_illegal_chars", nil, StripIllegalChars)},
		Entry{ID: 2, Transform: New("lowercase", nil, Lowercase)},
		Entry{ID: 3, Transform: New("build_track_title", nil, BuildTrackTitle)},
		Entry{ID: 4, Transform: New("set_library_id", nil, SetLibraryID)},
		Entry{ID: 5, Transform: New("set_cd_id", nil, SetCDID)},
		Entry{ID: 6, Transform: New("filter_instruments", func() FilterParams { return DefaultFilterParams(o.rules) }, FilterInstruments)},
		Entry{ID: 7, Transform: New("pad_tags", nil, PadTags)},
		Entry{ID: 8, Transform: New("dedupe_tags", nil, DedupeTags)},
		Entry{ID: 9, Transform: New("expand_main_tags_to_alts", nil, ExpandMainTagsToAlts)},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// normalizeKey maps "7", " 7 " and "7.0" onto the same key
func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if f, err := strconv.ParseFloat(key, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return key
}

// 🔍 Lookup resolves a numeric id or a name
func (r *Registry) Lookup(key string) (Transform, error) {
	t, ok := r.byKey[normalizeKey(key)]
	if !ok {
		return nil, errors.Errorf("%w: %q", ErrUnknownTransform, key)
	}
	return t, nil
}

// List returns the entries ordered by id
func (r *Registry) List() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
