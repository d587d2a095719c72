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
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/pkg/table"
)

var (
	// ErrMissingColumn is returned when a transform needs a column the table
	// does not have
	ErrMissingColumn = errors.Base("missing column")

	// ErrBadArgument is returned for unknown, missing or mistyped arguments
	ErrBadArgument = errors.Base("bad argument")
)

// 🔌 Transform is one post-processing step. Apply receives the whole working
// table plus the step's named arguments and returns the table. Anything it
// mutates before returning an error is discarded by the caller.
type Transform interface {
	// Name is the stable name used in templates and diagnostics
	Name() string

	// Apply runs the transform
	Apply(ctx context.Context, tbl *table.Table, args map[string]any) (*table.Table, error)
}

// typed adapts a function over a params struct to the Transform interface.
// defaults builds the params value that arguments are decoded onto.
type typed[P any] struct {
	name     string
	defaults func() P
	fn       func(ctx context.Context, tbl *table.Table, p P) error
}

// 🏭 New wraps fn as a Transform whose arguments decode into P
func New[P any](name string, defaults func() P, fn func(ctx context.Context, tbl *table.Table, p P) error) Transform {
	if defaults == nil {
		defaults = func() P {
			var p P
			return p
		}
	}
	return &typed[P]{name: name, defaults: defaults, fn: fn}
}

func (t *typed[P]) Name() string {
	return t.name
}

func (t *typed[P]) Apply(ctx context.Context, tbl *table.Table, args map[string]any) (*table.Table, error) {
	p := t.defaults()
	if err := decodeArgs(args, &p); err != nil {
		return tbl, errors.Errorf("%s: %w", t.name, err)
	}
	if err := t.fn(ctx, tbl, p); err != nil {
		return tbl, errors.Errorf("%s: %w", t.name, err)
	}
	return tbl, nil
}

// decodeArgs decodes template arguments onto into. Unknown keys and type
// mismatches are bad arguments.
func decodeArgs(args map[string]any, into any) error {
	if len(args) == 0 {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return errors.Errorf("%w: encoding arguments: %s", ErrBadArgument, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return errors.Errorf("%w: %s", ErrBadArgument, err)
	}
	return nil
}

// requireColumns fails with ErrMissingColumn naming every absent column
func requireColumns(tbl *table.Table, columns ...string) error {
	if missing := tbl.Missing(columns...); len(missing) > 0 {
		return errors.WithDetails(
			errors.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", ")),
			"columns", missing,
		)
	}
	return nil
}

// requireArg fails with ErrBadArgument when value is empty
func requireArg(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.Errorf("%w: %s is required", ErrBadArgument, name)
	}
	return nil
}

// 📋 Columns is a list of column names. Templates may give a single name as a
// plain string.
type Columns []string

// UnmarshalJSON accepts "name" or ["a", "b"]
func (c *Columns) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Columns{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*c = list
	return nil
}
