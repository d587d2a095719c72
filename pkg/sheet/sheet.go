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

// Package sheet reads input sheets into working tables and writes tables back
// out. The format is chosen from the file extension.
package sheet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/pkg/table"
)

var (
	// ErrUnsupportedFormat is returned for an extension no format handles
	ErrUnsupportedFormat = errors.Base("unsupported sheet format")

	// ErrEmptySheet is returned when an input has no header row
	ErrEmptySheet = errors.Base("sheet has no header row")
)

// 🔌 Format reads and writes raw records, the first record being the header
type Format interface {
	// CanHandle checks if this format handles the given file
	CanHandle(filename string) bool

	// ReadRecords reads every record of the file
	ReadRecords(ctx context.Context, path string) ([][]string, error)

	// WriteRecords writes records to the file, replacing it
	WriteRecords(ctx context.Context, path string, records [][]string) error
}

var (
	// 🗺️ formats is a list of available formats
	formats []Format
)

// 📝 Register registers a format
func Register(f Format) {
	formats = append(formats, f)
}

// 🎯 GetFormat returns the format that handles the given file
func GetFormat(filename string) Format {
	for _, f := range formats {
		if f.CanHandle(filename) {
			return f
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func formatFor(path string) (Format, error) {
	f := GetFormat(path)
	if f == nil {
		return nil, errors.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return f, nil
}

// 📖 Read loads a sheet as a table. Every cell is text and empty cells are
// absent.
func Read(ctx context.Context, path string) (*table.Table, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	records, err := f.ReadRecords(ctx, path)
	if err != nil {
		return nil, errors.Errorf("reading sheet %s: %w", path, err)
	}
	tbl, err := FromRecords(records)
	if err != nil {
		return nil, errors.Errorf("reading sheet %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("rows", tbl.Len()).Strs("columns", tbl.Columns()).Msg("sheet read")
	return tbl, nil
}

// 💾 Write stores tbl at path, creating the parent directory when needed.
// Absent cells are written empty.
func Write(ctx context.Context, path string, tbl *table.Table) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Errorf("creating output directory: %w", err)
		}
	}
	if err := f.WriteRecords(ctx, path, tbl.Records()); err != nil {
		return errors.Errorf("writing sheet %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("rows", tbl.Len()).Msg("sheet written")
	return nil
}

// 🏗️ FromRecords builds a table from raw records. Blank header names become
// "Unnamed: <i>" and repeated names get a ".<n>" suffix. Short rows are padded
// with absent cells and cells past the header are dropped.
func FromRecords(records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptySheet
	}

	header := Header(records[0])
	tbl := table.New(header...)
	for _, rec := range records[1:] {
		row := make(table.Row, len(header))
		for i, col := range header {
			if i < len(rec) && rec[i] != "" {
				row[col] = table.Text(rec[i])
			}
		}
		tbl.Append(row)
	}
	return tbl, nil
}

// 🏷️ Header normalizes raw header names into unique column names
func Header(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	next := map[string]int{}

	for i, name := range raw {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if used[name] {
			base, n := name, max(next[name], 1)
			for used[fmt.Sprintf("%s.%d", base, n)] {
				n++
			}
			name = fmt.Sprintf("%s.%d", base, n)
			next[base] = n + 1
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// 🗂️ OutputPath names the export of input for a template:
// "<dir>/<input stem> -- <template><input ext>". dir defaults to the
// directory of input.
func OutputPath(input, outDir, templateName string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(filepath.Base(input), ext)
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, fmt.Sprintf("%s -- %s%s", stem, templateName, ext))
}
