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
	"bytes"
	"context"
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// 🔧 JSONParser implements the Parser interface for JSON template files
type JSONParser struct{}

func init() {
	Register(&JSONParser{})
}

// rawTemplate is the on-disk shape shared by the JSON and YAML parsers
type rawTemplate struct {
	Name          string       `json:"name" yaml:"name"`
	Version       scalarString `json:"version" yaml:"version"`
	HeaderMap     HeaderMap    `json:"header_map" yaml:"header_map"`
	PostProcesses []Invocation `json:"post_processes" yaml:"post_processes"`
}

func (r *rawTemplate) template() *Template {
	t := &Template{
		Name:          r.Name,
		Version:       string(r.Version),
		HeaderMap:     r.HeaderMap,
		PostProcesses: r.PostProcesses,
	}
	if t.HeaderMap == nil {
		t.HeaderMap = HeaderMap{}
	}
	return t
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *JSONParser) CanParse(filename string) bool {
	return hasExt(filename, ".json")
}

// 📝 Parse parses a JSON object of template name → template, keeping file order
func (p *JSONParser) Parse(ctx context.Context, path string, data []byte) (*File, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	if tok != json.Delim('{') {
		return nil, errors.Errorf("parsing JSON: expected an object of templates")
	}

	f := NewFile(path)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, errors.Errorf("parsing JSON: %w", err)
		}
		key, _ := kt.(string)

		var raw rawTemplate
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Errorf("parsing JSON template %q: %w", key, err)
		}
		f.Add(key, raw.template())
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}

	return f, nil
}
