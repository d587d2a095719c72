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
	"encoding/json"
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// ErrTemplateNotFound is returned when a template file has no template with
// the requested name
var ErrTemplateNotFound = errors.Base("template not found")

// 🔄 HeaderMapping copies one source column into one destination column
type HeaderMapping struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// 🗺️ HeaderMap is the ordered source → destination mapping of a template.
// Source names are unique.
type HeaderMap []HeaderMapping

// Destinations returns the destination columns in declaration order, each
// name once
func (h HeaderMap) Destinations() []string {
	seen := make(map[string]bool, len(h))
	out := make([]string, 0, len(h))
	for _, m := range h {
		if seen[m.Destination] {
			continue
		}
		seen[m.Destination] = true
		out = append(out, m.Destination)
	}
	return out
}

// put sets source → destination, keeping the first position of a repeated
// source key and its last value
func (h *HeaderMap) put(source, destination string) {
	for i := range *h {
		if (*h)[i].Source == source {
			(*h)[i].Destination = destination
			return
		}
	}
	*h = append(*h, HeaderMapping{Source: source, Destination: destination})
}

// UnmarshalJSON accepts an object {"src": "dst"} (order kept) or a list of
// ["src", "dst"] pairs
func (h *HeaderMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Errorf("reading header_map: %w", err)
	}

	out := HeaderMap{}
	switch tok {
	case nil:
	case json.Delim('{'):
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return errors.Errorf("reading header_map key: %w", err)
			}
			key, _ := kt.(string)
			var dst string
			if err := dec.Decode(&dst); err != nil {
				return errors.Errorf("header_map[%q]: %w", key, err)
			}
			out.put(key, dst)
		}
	case json.Delim('['):
		var pairs [][]string
		if err := json.Unmarshal(data, &pairs); err != nil {
			return errors.Errorf("header_map pairs: %w", err)
		}
		for i, p := range pairs {
			if len(p) != 2 {
				return errors.Errorf("header_map[%d]: expected [source, destination], got %d item(s)", i, len(p))
			}
			out.put(p[0], p[1])
		}
	default:
		return errors.Errorf("header_map: expected object or list, got %v", tok)
	}

	*h = out
	return nil
}

// UnmarshalYAML accepts a mapping (order kept) or a sequence of pairs
func (h *HeaderMap) UnmarshalYAML(node *yaml.Node) error {
	out := HeaderMap{}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			out.put(node.Content[i].Value, node.Content[i+1].Value)
		}
	case yaml.SequenceNode:
		var pairs [][]string
		if err := node.Decode(&pairs); err != nil {
			return errors.Errorf("header_map pairs: %w", err)
		}
		for i, p := range pairs {
			if len(p) != 2 {
				return errors.Errorf("header_map[%d]: expected [source, destination], got %d item(s)", i, len(p))
			}
			out.put(p[0], p[1])
		}
	case yaml.ScalarNode:
		if node.Tag != "!!null" {
			return errors.Errorf("header_map: expected mapping or sequence at line %d", node.Line)
		}
	default:
		return errors.Errorf("header_map: expected mapping or sequence at line %d", node.Line)
	}
	*h = out
	return nil
}

// 🏷️ ID is a transform identifier. Templates may spell it as a number or a
// string; both are kept as text.
type ID string

// UnmarshalJSON accepts a JSON number or string
func (id *ID) UnmarshalJSON(data []byte) error {
	s, err := scalarJSON(data)
	if err != nil {
		return errors.Errorf("transform id: %w", err)
	}
	*id = ID(s)
	return nil
}

// UnmarshalYAML accepts any scalar
func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("transform id: expected scalar at line %d", node.Line)
	}
	*id = ID(node.Value)
	return nil
}

// scalarString is a string field that also accepts a bare number
type scalarString string

func (s *scalarString) UnmarshalJSON(data []byte) error {
	v, err := scalarJSON(data)
	if err != nil {
		return err
	}
	*s = scalarString(v)
	return nil
}

func (s *scalarString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("expected scalar at line %d", node.Line)
	}
	*s = scalarString(node.Value)
	return nil
}

func scalarJSON(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", errors.Errorf("expected number or string, got %s", string(data))
	}
	return n.String(), nil
}

// 🔧 Invocation is one post-processing step: the transform to run and its
// named arguments
type Invocation struct {
	ID   ID             `json:"id" yaml:"id"`
	Name string         `json:"name,omitempty" yaml:"name,omitempty"` // label used in diagnostics
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
}

// 📝 Label names the step for humans
func (inv Invocation) Label() string {
	if inv.Name != "" {
		return fmt.Sprintf("%s (%s)", inv.Name, inv.ID)
	}
	return string(inv.ID)
}

// 📚 Template is a named, versioned mapping plus its ordered transform steps.
// It is never mutated after loading.
type Template struct {
	Name          string
	Version       string
	HeaderMap     HeaderMap
	PostProcesses []Invocation
}

// 📝 String returns a short description
func (t *Template) String() string {
	return fmt.Sprintf("%s@%s (%d column(s), %d step(s))", t.Name, t.Version, len(t.HeaderMap), len(t.PostProcesses))
}

// 📂 File is every template found in one template file, in file order
type File struct {
	Path      string
	templates map[string]*Template
	order     []string
}

// 🏭 NewFile creates an empty template file model
func NewFile(path string) *File {
	return &File{Path: path, templates: map[string]*Template{}}
}

// ➕ Add registers t under key. A later key replaces an earlier one in place.
func (f *File) Add(key string, t *Template) {
	if t.Name == "" {
		t.Name = key
	}
	if _, ok := f.templates[key]; !ok {
		f.order = append(f.order, key)
	}
	f.templates[key] = t
}

// 🔍 Get returns the template stored under name
func (f *File) Get(name string) (*Template, error) {
	t, ok := f.templates[name]
	if !ok {
		return nil, errors.Errorf("%w: %q (available: %s)", ErrTemplateNotFound, name, strings.Join(f.order, ", "))
	}
	return t, nil
}

// Names returns template keys in file order
func (f *File) Names() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Templates returns the templates in file order
func (f *File) Templates() []*Template {
	out := make([]*Template, 0, len(f.order))
	for _, k := range f.order {
		out = append(out, f.templates[k])
	}
	return out
}
