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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

const jsonTemplates = `{
  "basic_test": {
    "name": "basic_test",
    "version": "1.2",
    "header_map": {
      "Song Title": "title",
      "Version": "version",
      "CD": "cd_id",
      "Artist": "artist"
    },
    "post_processes": [
      {"id": 1, "name": "clean titles", "args": {"headers": ["title"]}},
      {"id": "set_cd_id", "args": {"cd_id_header": "cd_id"}}
    ]
  },
  "second": {
    "version": 2,
    "header_map": [["A", "a"], ["B", "b"]],
    "post_processes": []
  }
}`

const yamlTemplates = `
basic_test:
  name: basic_test
  version: "1.2"
  header_map:
    Song Title: title
    Version: version
    CD: cd_id
    Artist: artist
  post_processes:
    - id: 1
      name: clean titles
      args:
        headers: [title]
    - id: set_cd_id
      args:
        cd_id_header: cd_id
second:
  version: 2
  header_map:
    - [A, a]
    - [B, b]
`

const hclTemplates = `
template "basic_test" {
  version = "1.2"
  header_map = {
    "Song Title" = "title"
    Version      = "version"
    CD           = "cd_id"
    Artist       = "artist"
  }

  post_process {
    id   = 1
    name = "clean titles"
    args = {
      headers = ["title"]
    }
  }

  post_process {
    id = "set_cd_id"
    args = {
      cd_id_header = "cd_id"
    }
  }
}

template "second" {
  version = 2
  header_map = {
    A = "a"
    B = "b"
  }
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing template file should succeed")
	return path
}

func TestLoadFormats(t *testing.T) {
	ctx := zerolog.New(os.Stderr).WithContext(context.Background())

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "json", file: "TEMPLATES.json", content: jsonTemplates},
		{name: "yaml", file: "templates.yaml", content: yamlTemplates},
		{name: "yml", file: "templates.yml", content: yamlTemplates},
		{name: "hcl", file: "templates.hcl", content: hclTemplates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			f, err := Load(ctx, path)
			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, []string{"basic_test", "second"}, f.Names(), "templates should keep file order")

			basic, err := f.Get("basic_test")
			require.NoError(t, err)
			assert.Equal(t, "basic_test", basic.Name)
			assert.Equal(t, "1.2", basic.Version)
			assert.Equal(t, HeaderMap{
				{Source: "Song Title", Destination: "title"},
				{Source: "Version", Destination: "version"},
				{Source: "CD", Destination: "cd_id"},
				{Source: "Artist", Destination: "artist"},
			}, basic.HeaderMap, "header order should be preserved")

			require.Len(t, basic.PostProcesses, 2)
			assert.Equal(t, ID("1"), basic.PostProcesses[0].ID)
			assert.Equal(t, "clean titles", basic.PostProcesses[0].Name)
			assert.Equal(t, []any{"title"}, basic.PostProcesses[0].Args["headers"])
			assert.Equal(t, ID("set_cd_id"), basic.PostProcesses[1].ID)
			assert.Equal(t, "cd_id", basic.PostProcesses[1].Args["cd_id_header"])

			second, err := f.Get("second")
			require.NoError(t, err)
			assert.Equal(t, "second", second.Name, "name should default to the key")
			assert.Equal(t, "2", second.Version, "numeric version should be kept as text")
			assert.Equal(t, []string{"a", "b"}, second.HeaderMap.Destinations())
			assert.Empty(t, second.PostProcesses)
		})
	}
}

func TestLoadTemplateErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		path        func(t *testing.T) string
		template    string
		errContains string
		errIs       error
	}{
		{
			name:        "missing_file",
			path:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			template:    "basic_test",
			errContains: "reading template file",
		},
		{
			name:        "unknown_extension",
			path:        func(t *testing.T) string { return writeFile(t, "templates.toml", "x = 1") },
			template:    "basic_test",
			errContains: "no parser found",
		},
		{
			name:        "broken_json",
			path:        func(t *testing.T) string { return writeFile(t, "t.json", `{"basic_test": {`) },
			template:    "basic_test",
			errContains: "parsing template file",
		},
		{
			name:        "broken_hcl",
			path:        func(t *testing.T) string { return writeFile(t, "t.hcl", `template "x" {`) },
			template:    "x",
			errContains: "parsing HCL",
		},
		{
			name:        "json_not_object",
			path:        func(t *testing.T) string { return writeFile(t, "t.json", `[]`) },
			template:    "x",
			errContains: "expected an object of templates",
		},
		{
			name:        "template_absent",
			path:        func(t *testing.T) string { return writeFile(t, "t.json", jsonTemplates) },
			template:    "missing",
			errContains: `"missing"`,
			errIs:       ErrTemplateNotFound,
		},
		{
			name:        "bad_pair",
			path:        func(t *testing.T) string { return writeFile(t, "t.json", `{"x": {"header_map": [["only"]]}}`) },
			template:    "x",
			errContains: "expected [source, destination]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTemplate(ctx, tt.path(t), tt.template)
			require.Error(t, err, "LoadTemplate should fail")
			assert.Contains(t, err.Error(), tt.errContains)
			if tt.errIs != nil {
				assert.True(t, errors.Is(err, tt.errIs), "error should wrap %v", tt.errIs)
			}
		})
	}
}

func TestHeaderMapDuplicateSource(t *testing.T) {
	path := writeFile(t, "t.json", `{"x": {"header_map": {"A": "a", "B": "b", "A": "z"}}}`)
	tmpl, err := LoadTemplate(context.Background(), path, "x")
	require.NoError(t, err)
	assert.Equal(t, HeaderMap{
		{Source: "A", Destination: "z"},
		{Source: "B", Destination: "b"},
	}, tmpl.HeaderMap, "repeated key keeps first position and last value")
}

func TestDestinationsDedupe(t *testing.T) {
	hm := HeaderMap{{"A", "x"}, {"B", "y"}, {"C", "x"}}
	assert.Equal(t, []string{"x", "y"}, hm.Destinations())
}

func TestInvocationLabel(t *testing.T) {
	assert.Equal(t, "7", Invocation{ID: "7"}.Label())
	assert.Equal(t, "pad facets (7)", Invocation{ID: "7", Name: "pad facets"}.Label())
}
