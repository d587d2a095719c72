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

package sheet

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

// DefaultSheetName is the worksheet written to new workbooks
const DefaultSheetName = "Sheet1"

func init() {
	Register(&XLSXFormat{})
}

// 📊 XLSXFormat reads the first worksheet of a workbook and writes a single
// worksheet workbook
type XLSXFormat struct{}

// CanHandle implements Format
func (f *XLSXFormat) CanHandle(filename string) bool {
	return hasExt(filename, ".xlsx", ".xlsm")
}

// ReadRecords implements Format
func (f *XLSXFormat) ReadRecords(ctx context.Context, path string) ([][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Errorf("opening workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	if len(sheets) > 1 {
		zerolog.Ctx(ctx).Debug().Str("sheet", sheets[0]).Strs("ignored", sheets[1:]).Msg("reading first worksheet only")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Errorf("reading worksheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// WriteRecords implements Format. Empty strings are left as empty cells.
func (f *XLSXFormat) WriteRecords(ctx context.Context, path string, records [][]string) error {
	wb := excelize.NewFile()
	defer wb.Close()

	sw, err := wb.NewStreamWriter(DefaultSheetName)
	if err != nil {
		return errors.Errorf("creating stream writer: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Errorf("addressing row %d: %w", i+1, err)
		}
		values := make([]interface{}, len(rec))
		for j, v := range rec {
			if v != "" {
				values[j] = v
			}
		}
		if err := sw.SetRow(cell, values); err != nil {
			return errors.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return errors.Errorf("flushing worksheet: %w", err)
	}
	if err := wb.SaveAs(path); err != nil {
		return errors.Errorf("saving workbook: %w", err)
	}
	return nil
}
