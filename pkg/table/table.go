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

// Package table holds the in-memory working table shared by the mapper, the
// transform pipeline and the sheet readers and writers.
package table

import "strings"

// 📦 Cell is one optional text value. A cell that was never set (or was read
// from an empty spreadsheet cell) is absent; a present cell may hold "".
type Cell struct {
	Text    string
	Present bool
}

// 🏭 Text returns a present cell holding s
func Text(s string) Cell {
	return Cell{Text: s, Present: true}
}

// Absent is the zero cell
var Absent = Cell{}

// 🔍 Blank reports whether the cell is absent or holds only whitespace
func (c Cell) Blank() bool {
	return !c.Present || strings.TrimSpace(c.Text) == ""
}

// Row maps column name to cell. Missing keys read as absent.
type Row map[string]Cell

// 🔍 Get returns the cell for column
func (r Row) Get(column string) Cell {
	return r[column]
}

// 📝 Set stores a present text value
func (r Row) Set(column, value string) {
	r[column] = Text(value)
}

// 📝 Put stores a cell as-is, absent cells included
func (r Row) Put(column string, c Cell) {
	if !c.Present {
		delete(r, column)
		return
	}
	r[column] = c
}

// 🗺️ Table is an ordered list of rows over an ordered, growable column set
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// 🏭 New creates an empty table with the given columns. Duplicate names are
// kept once, at their first position.
func New(columns ...string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether column is part of the table
func (t *Table) HasColumn(column string) bool {
	_, ok := t.index[column]
	return ok
}

// ➕ AddColumn appends column if it does not exist yet; existing rows read it as
// absent. It returns false when the column was already there.
func (t *Table) AddColumn(column string) bool {
	if t.index == nil {
		t.index = map[string]int{}
	}
	if _, ok := t.index[column]; ok {
		return false
	}
	t.index[column] = len(t.columns)
	t.columns = append(t.columns, column)
	return true
}

// Len is the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns row i. The returned map is live: writes go into the table.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Rows returns the live rows in order
func (t *Table) Rows() []Row {
	return t.rows
}

// ➕ Append adds a row. Cells for unknown columns are dropped so the row always
// agrees with the column set.
func (t *Table) Append(r Row) {
	row := make(Row, len(r))
	for k, v := range r {
		if t.HasColumn(k) && v.Present {
			row[k] = v
		}
	}
	t.rows = append(t.rows, row)
}

// 📏 Grow appends n empty rows
func (t *Table) Grow(n int) {
	for i := 0; i < n; i++ {
		t.rows = append(t.rows, Row{})
	}
}

// Column returns the cells of column in row order
func (t *Table) Column(column string) []Cell {
	out := make([]Cell, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Get(column)
	}
	return out
}

// 🔄 Apply replaces every cell of column with fn(cell)
func (t *Table) Apply(column string, fn func(Cell) Cell) {
	for _, r := range t.rows {
		r.Put(column, fn(r.Get(column)))
	}
}

// Missing returns the subset of columns that are not part of the table,
// in the given order
func (t *Table) Missing(columns ...string) []string {
	var out []string
	for _, c := range columns {
		if !t.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	c := New(t.columns...)
	c.rows = make([]Row, len(t.rows))
	for i, r := range t.rows {
		row := make(Row, len(r))
		for k, v := range r {
			row[k] = v
		}
		c.rows[i] = row
	}
	return c
}

// Records renders the table as header plus string rows, absent cells as ""
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.rows)+1)
	out = append(out, t.Columns())
	for _, r := range t.rows {
		rec := make([]string, len(t.columns))
		for i, c := range t.columns {
			rec[i] = r.Get(c).Text
		}
		out = append(out, rec)
	}
	return out
}
