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

package template

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for template file parsers
type Parser interface {
	// 📝 Parse parses every template in data
	Parse(ctx context.Context, path string, data []byte) (*File, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// 🎯 Load reads and parses every template in a template file
func Load(ctx context.Context, path string) (*File, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading template file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading template file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for template file: %s", path)
	}

	f, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing template file %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Strs("templates", f.Names()).Msg("template file loaded")
	return f, nil
}

// 🎯 LoadTemplate loads one named template from a template file
func LoadTemplate(ctx context.Context, path, name string) (*Template, error) {
	f, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}

	t, err := f.Get(name)
	if err != nil {
		return nil, errors.Errorf("selecting template from %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("template", t.Name).
		Str("version", t.Version).
		Int("columns", len(t.HeaderMap)).
		Int("steps", len(t.PostProcesses)).
		Msg("template selected")

	return t, nil
}
