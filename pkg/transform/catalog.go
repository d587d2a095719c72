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
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/walteh/sheetmap/pkg/table"
)

// TrackTitleParams configures build_track_title
type TrackTitleParams struct {
	SongTitleHeader string `json:"song_title_header"`
	VersionHeader   string `json:"version_header"`
	DestHeader      string `json:"dest_header"`
}

// 🎵 TrackTitle combines a title and a version into a display title. Blank
// cells count as absent. A version of "main" is never appended.
func TrackTitle(title, version table.Cell) table.Cell {
	hasTitle, hasVersion := !title.Blank(), !version.Blank()
	switch {
	case !hasTitle && !hasVersion:
		return table.Absent
	case !hasVersion:
		return table.Text(strings.TrimSpace(title.Text))
	case !hasTitle:
		return table.Text(strings.TrimSpace(version.Text))
	}

	v := strings.TrimSpace(version.Text)
	t := strings.TrimSpace(title.Text)
	if strings.EqualFold(v, "main") {
		return table.Text(t)
	}
	return table.Text(t + " " + cases.Title(language.English).String(v))
}

// 🎵 BuildTrackTitle writes TrackTitle of every row into the destination
// column, creating it when needed. Missing source columns read as absent.
func BuildTrackTitle(ctx context.Context, tbl *table.Table, p TrackTitleParams) error {
	for _, arg := range [][2]string{
		{"song_title_header", p.SongTitleHeader},
		{"version_header", p.VersionHeader},
		{"dest_header", p.DestHeader},
	} {
		if err := requireArg(arg[0], arg[1]); err != nil {
			return err
		}
	}

	tbl.AddColumn(p.DestHeader)
	for _, r := range tbl.Rows() {
		r.Put(p.DestHeader, TrackTitle(r.Get(p.SongTitleHeader), r.Get(p.VersionHeader)))
	}
	return nil
}

// LibraryIDParams configures set_library_id
type LibraryIDParams struct {
	LibraryIDHeader string `json:"library_id_header"`
	CDIDHeader      string `json:"cd_id_header"`
}

// 🏷️ LibraryID extracts the letter prefix of a catalog id: digits, hyphens
// and spaces are dropped and the rest is upper-cased ("AMH-0032" → "AMH")
func LibraryID(raw table.Cell) table.Cell {
	if raw.Blank() {
		return table.Absent
	}
	prefix := strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(raw.Text)))
	prefix = strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(prefix))
	if prefix == "" {
		return table.Absent
	}
	return table.Text(prefix)
}

// 🏷️ SetLibraryID writes LibraryID of the cd id column into the library id
// column
func SetLibraryID(ctx context.Context, tbl *table.Table, p LibraryIDParams) error {
	if err := requireArg("library_id_header", p.LibraryIDHeader); err != nil {
		return err
	}
	if err := requireArg("cd_id_header", p.CDIDHeader); err != nil {
		return err
	}
	if err := requireColumns(tbl, p.CDIDHeader); err != nil {
		return err
	}

	tbl.AddColumn(p.LibraryIDHeader)
	for _, r := range tbl.Rows() {
		r.Put(p.LibraryIDHeader, LibraryID(r.Get(p.CDIDHeader)))
	}
	return nil
}

// CDIDParams configures set_cd_id
type CDIDParams struct {
	CDIDHeader string `json:"cd_id_header"`
	DestHeader string `json:"dest_header"` // defaults to cd_id_header
}

// cdPrefixLen and cdNumberWidth shape normalized catalog ids
const (
	cdPrefixLen   = 3
	cdNumberWidth = 4
)

// 💿 CDID normalizes a catalog id: "amh 032" → "AMH-0032". When the part
// after the 3 character prefix is empty or not numeric only the prefix is
// returned.
func CDID(raw table.Cell) table.Cell {
	if raw.Blank() {
		return table.Absent
	}
	clean := []rune(strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw.Text)))

	n := min(cdPrefixLen, len(clean))
	prefix := strings.ToUpper(string(clean[:n]))
	num := string(clean[n:])

	if num == "" || strings.IndexFunc(num, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
		return table.Text(prefix)
	}
	if pad := cdNumberWidth - len([]rune(num)); pad > 0 {
		num = strings.Repeat("0", pad) + num
	}
	return table.Text(prefix + "-" + num)
}

// 💿 SetCDID rewrites the cd id column (or dest_header) with CDID
func SetCDID(ctx context.Context, tbl *table.Table, p CDIDParams) error {
	if err := requireArg("cd_id_header", p.CDIDHeader); err != nil {
		return err
	}
	if err := requireColumns(tbl, p.CDIDHeader); err != nil {
		return err
	}

	dest := p.DestHeader
	if dest == "" {
		dest = p.CDIDHeader
	}
	tbl.AddColumn(dest)
	for _, r := range tbl.Rows() {
		r.Put(dest, CDID(r.Get(p.CDIDHeader)))
	}
	return nil
}
