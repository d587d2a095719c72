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
	"encoding/csv"
	"os"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&DelimitedFormat{Comma: ',', Exts: []string{".csv"}})
	Register(&DelimitedFormat{Comma: '\t', Exts: []string{".tsv", ".txt"}})
}

// 📄 DelimitedFormat handles comma and tab separated text files
type DelimitedFormat struct {
	Comma rune
	Exts  []string
}

// CanHandle implements Format
func (f *DelimitedFormat) CanHandle(filename string) bool {
	return hasExt(filename, f.Exts...)
}

// ReadRecords implements Format. Rows may have any number of fields.
func (f *DelimitedFormat) ReadRecords(ctx context.Context, path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comma = f.Comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Errorf("parsing records: %w", err)
	}
	return records, nil
}

// WriteRecords implements Format
func (f *DelimitedFormat) WriteRecords(ctx context.Context, path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating file: %w", err)
	}

	w := csv.NewWriter(file)
	w.Comma = f.Comma
	if err := w.WriteAll(records); err != nil {
		file.Close()
		return errors.Errorf("writing records: %w", err)
	}
	if err := file.Close(); err != nil {
		return errors.Errorf("closing file: %w", err)
	}
	return nil
}
