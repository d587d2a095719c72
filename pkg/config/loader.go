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

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a settings file from the given path.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
func Load(ctx context.Context, path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	var s *Settings
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		s, err = loadJSON(data)
	case ".yaml", ".yml":
		s, err = loadYAML(data)
	case ".hcl":
		s, err = loadHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	s.location = path
	s.applyDefaults()
	if err := Validate(s); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("settings loaded")
	return s, nil
}

// 🔍 Find loads the first default settings file present in dir. No file is
// not an error: defaults are returned.
func Find(ctx context.Context, dir string) (*Settings, error) {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Errorf("checking %s: %w", path, err)
		}
		return Load(ctx, path)
	}
	zerolog.Ctx(ctx).Trace().Str("dir", dir).Msg("no settings file, using defaults")
	return Default(), nil
}

// 🎯 Resolve loads path when given, otherwise searches dir
func Resolve(ctx context.Context, path, dir string) (*Settings, error) {
	if path != "" {
		return Load(ctx, path)
	}
	return Find(ctx, dir)
}

// loadJSON loads settings from JSON data
func loadJSON(data []byte) (*Settings, error) {
	var s Settings
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &s, nil
}

// loadYAML loads settings from YAML data
func loadYAML(data []byte) (*Settings, error) {
	var s Settings
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &s, nil
}

// loadHCL loads settings from HCL data
func loadHCL(data []byte, filename string) (*Settings, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var s Settings
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &s); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &s, nil
}
