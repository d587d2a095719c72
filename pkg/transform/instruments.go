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

// 🎺 TriggerRule removes Removals from a row's instruments when any of
// Triggers appears in its version text
type TriggerRule struct {
	Triggers []string
	Removals []string
}

// matches reports whether any trigger is a substring of version
func (r TriggerRule) matches(version string) bool {
	for _, t := range r.Triggers {
		if strings.Contains(version, t) {
			return true
		}
	}
	return false
}

// DefaultTriggerRules is the static rule table used by filter_instruments
var DefaultTriggerRules = []TriggerRule{
	{
		Triggers: []string{"Vocal", "Instrumental", "Vox"},
		Removals: []string{"Male", "Vocal Textures", "Female", "Synth Voice / Vocoder", "Vocal Background", "Voice Texture",
			"Chanting, Generic", "Human Beatbox", "Non Lyric Melody", "Treated Vocal", "Vocal Phrase / Shout Out", "Scat Singing"},
	},
	{
		Triggers: []string{"Brass", "Horns"},
		Removals: []string{"Trumpet / Cornet", "Brass", "Bugle", "Flugelhorn", "Horn / French Horn", "Trombone", "Tuba / Sousaphone"},
	},
	{Triggers: []string{"Trumpet / Cornet"}, Removals: []string{"Trumpet / Cornet"}},
	{Triggers: []string{"Saxophone"}, Removals: []string{"Saxophone", "Alto Sax", "Baritone Sax", "Soprano Sax", "Tenor Sax"}},
	{Triggers: []string{"Drums", "Beat"}, Removals: []string{"Drum Kit", "Drum Machine / Electronic Drums", "Drums"}},
	{
		Triggers: []string{"Guitar", "Electric Guitar", "Acoustic", "Acoustic Guitar", "Dobro"},
		Removals: []string{"Guitar, Electric", "Guitar, Acoustic / Nylon String", "Guitar, Bottleneck / Slide",
			"Guitar, Distorted Electric", "Guitar, Pedal Steel", "Guitar, Wah Wah"},
	},
	{Triggers: []string{"Acoustic", "Acoustic Guitar", "Dobro"}, Removals: []string{"Guitar, Acoustic / Steel String", "Guitar, Dobro"}},
	{
		Triggers: []string{"Organ"},
		Removals: []string{"Organ, Barrel", "Organ, Bontempi", "Organ, Church", "Organ, Electric", "Organ, Hammond", "Organ, Harmonium",
			"Organ, Horror", "Organ, Quiz Show", "Organ, Stadium", "Organ, Wurlitzer"},
	},
	{Triggers: []string{"Percussion"}, Removals: []string{"Percussion"}},
	{Triggers: []string{"Mallets", "Xylophone", "Marimba"}, Removals: []string{"Xylophone / Glockenspiel", "Vibraphone", "Marimba"}},
	{
		Triggers: []string{"Keyboard"},
		Removals: []string{"Piano", "Piano, Electric", "Marimba", "Organ, Barrel", "Organ, Bontempi", "Organ, Church", "Organ, Electric",
			"Organ, Hammond", "Organ, Harmonium", "Organ, Horror", "Organ, Quiz Show", "Organ, Stadium", "Organ, Wurlitzer"},
	},
	{Triggers: []string{"Ukulele"}, Removals: []string{"Ukulele"}},
	{Triggers: []string{"Piano"}, Removals: []string{"Piano", "Piano, Electric"}},
	{Triggers: []string{"Strings"}, Removals: []string{"Cello", "Strings", "Violin", "Viola"}},
	{Triggers: []string{"Accordion"}, Removals: []string{"Accordion / Concertina"}},
	{Triggers: []string{"Clav", "Clavinet"}, Removals: []string{"Clavinet"}},
}

// FilterParams configures filter_instruments. Rules is not read from
// templates.
type FilterParams struct {
	VersionHeader     string `json:"version_header"`
	InstrumentsHeader string `json:"instruments_header"`
	RequireToken      string `json:"require_no_token"`
	ExcludeToken      string `json:"exclude_lead_token"`

	Rules []TriggerRule `json:"-"`
}

// 🏭 DefaultFilterParams returns the gate tokens " No " / " Lead " and rules
func DefaultFilterParams(rules []TriggerRule) FilterParams {
	return FilterParams{
		RequireToken: " No ",
		ExcludeToken: " Lead ",
		Rules:        rules,
	}
}

// gated reports whether version passes the require/exclude gate. An empty
// token disables its half of the gate.
func (p FilterParams) gated(version string) bool {
	if p.RequireToken != "" && !strings.Contains(version, p.RequireToken) {
		return false
	}
	if p.ExcludeToken != "" && strings.Contains(version, p.ExcludeToken) {
		return false
	}
	return true
}

// 🎺 FilterInstrumentTags returns the instruments cell after applying the
// rules for one row. Cells are returned untouched unless something is removed.
func FilterInstrumentTags(p FilterParams, version, instruments table.Cell) table.Cell {
	if !version.Present || !instruments.Present || !p.gated(version.Text) {
		return instruments
	}

	list := tags.Parse(instruments.Text)
	if len(list) == 0 {
		return instruments
	}

	drop := tags.NewSet()
	for _, rule := range p.Rules {
		if rule.matches(version.Text) {
			drop.Add(rule.Removals...)
		}
	}
	if len(drop) == 0 {
		return instruments
	}

	kept := tags.Remove(list, drop)
	if len(kept) == len(list) {
		return instruments
	}
	return table.Text(tags.Serialize(kept))
}

// 🎺 FilterInstruments removes instrument tags implied by the version text of
// gated rows
func FilterInstruments(ctx context.Context, tbl *table.Table, p FilterParams) error {
	if err := requireArg("version_header", p.VersionHeader); err != nil {
		return err
	}
	if err := requireArg("instruments_header", p.InstrumentsHeader); err != nil {
		return err
	}
	if err := requireColumns(tbl, p.VersionHeader, p.InstrumentsHeader); err != nil {
		return err
	}

	changed := 0
	for _, r := range tbl.Rows() {
		before := r.Get(p.InstrumentsHeader)
		after := FilterInstrumentTags(p, r.Get(p.VersionHeader), before)
		if after != before {
			changed++
		}
		r.Put(p.InstrumentsHeader, after)
	}

	zerolog.Ctx(ctx).Debug().Int("rows_changed", changed).Msg("instrument tags filtered")
	return nil
}
