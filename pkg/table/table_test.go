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

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddColumn(t *testing.T) {
	tbl := New("a", "b", "a")
	assert.Equal(t, []string{"a", "b"}, tbl.Columns(), "duplicates should collapse")

	assert.True(t, tbl.AddColumn("c"), "new column should be added")
	assert.False(t, tbl.AddColumn("b"), "existing column should not be added twice")
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Columns(), "order should be preserved")
	assert.Equal(t, []string{"x", "y"}, tbl.Missing("a", "x", "b", "y"), "missing should keep order")
}

func TestAppendDropsUnknownColumns(t *testing.T) {
	tbl := New("a")
	tbl.Append(Row{"a": Text("1"), "z": Text("2"), "b": Absent})

	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, Text("1"), tbl.Row(0).Get("a"))
	assert.False(t, tbl.Row(0).Get("z").Present, "unknown column should be dropped")
}

func TestCellBlank(t *testing.T) {
	assert.True(t, Absent.Blank())
	assert.True(t, Text("").Blank())
	assert.True(t, Text("  \t").Blank())
	assert.False(t, Text(" x ").Blank())
}

func TestPutAbsentDeletes(t *testing.T) {
	r := Row{"a": Text("")}
	r.Put("a", Absent)
	_, ok := r["a"]
	assert.False(t, ok, "absent put should remove the key")

	r.Put("a", Text(""))
	assert.True(t, r.Get("a").Present, "blank text is still present")
}

func TestCloneIsDeep(t *testing.T) {
	tbl := New("a")
	tbl.Append(Row{"a": Text("orig")})

	c := tbl.Clone()
	c.Row(0).Set("a", "changed")
	c.AddColumn("b")

	assert.Equal(t, "orig", tbl.Row(0).Get("a").Text, "clone writes must not leak")
	assert.False(t, tbl.HasColumn("b"), "clone columns must not leak")
}

func TestRecords(t *testing.T) {
	tbl := New("a", "b")
	tbl.Append(Row{"a": Text("1")})
	tbl.Append(Row{"b": Text("2")})

	assert.Equal(t, [][]string{
		{"a", "b"},
		{"1", ""},
		{"", "2"},
	}, tbl.Records())
}

func TestApply(t *testing.T) {
	tbl := New("a")
	tbl.Append(Row{"a": Text("x")})
	tbl.Append(Row{})

	tbl.Apply("a", func(c Cell) Cell {
		if !c.Present {
			return c
		}
		return Text(c.Text + "!")
	})

	assert.Equal(t, []Cell{Text("x!"), Absent}, tbl.Column("a"))
}
