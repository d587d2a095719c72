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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/sheetmap/cmd/sheetmap/opts"
	"github.com/walteh/sheetmap/pkg/sheet"
	"github.com/walteh/sheetmap/pkg/table"
)

// execute runs the command tree with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&opts.RootOpts{}, &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func texts(vals ...string) []table.Cell {
	out := make([]table.Cell, len(vals))
	for i, v := range vals {
		if v != "" {
			out[i] = table.Text(v)
		}
	}
	return out
}

func TestRunCommand(t *testing.T) {
	outDir := t.TempDir()
	input := filepath.Join("testdata", "catalog.csv")

	stdout, err := execute(t, "run", "-t", filepath.Join("testdata", "TEMPLATES.json"), "-n", "basic_test", "--output-dir", outDir, input)
	require.NoError(t, err, "run should succeed despite recoverable problems")

	assert.Contains(t, stdout, "Mapping "+input+" with basic_test@1.0")
	assert.Contains(t, stdout, "retired step (42)")
	assert.Contains(t, stdout, "1 recoverable problem(s)")

	outPath := filepath.Join(outDir, "catalog -- basic_test.csv")
	assert.Contains(t, stdout, "Wrote 4 row(s) to "+outPath)

	got, err := sheet.Read(context.Background(), outPath)
	require.NoError(t, err, "output should be readable")

	assert.Equal(t, []string{
		"title", "version", "track_type", "cd_id", "keywords", "moods", "instruments", "genre", "library", "track_title",
	}, got.Columns())

	checks := map[string][]table.Cell{
		"title":       texts("Sunrise", "Sunrise", "Sunrise", "Night Live"),
		"track_title": texts("Sunrise", "Sunrise Full No Drums Mix", "Sunrise No Lead Vocal", "Night Live"),
		"cd_id":       texts("AMH-0032", "AMH-0032", "AMH-0032", "XY"),
		"library":     texts("AMH", "AMH", "AMH", "XY"),
		"instruments": texts("Drum Kit;Bass", "Bass", "Piano", ""),
		"keywords":    texts("rock;happy", "sad;rock;happy", "rock;happy", "jazz;blue"),
		"moods":       texts("Happy", "Sad;Happy", "Happy", "Calm"),
		"genre":       texts("Rock", "", "", "Blues;Jazz"),
	}
	for col, want := range checks {
		assert.Equal(t, want, got.Column(col), "column %s", col)
	}
}

func TestRunCommandSettings(t *testing.T) {
	dir := t.TempDir()
	templates, err := filepath.Abs(filepath.Join("testdata", "TEMPLATES.json"))
	require.NoError(t, err)

	settings := filepath.Join(dir, "settings.yaml")
	content := "template_path: " + templates + "\ntemplate_name: minimal\noutput_dir: " + filepath.Join(dir, "out") + "\njobs: 2\n"
	require.NoError(t, os.WriteFile(settings, []byte(content), 0o644))

	_, err = execute(t, "-c", settings, "run", filepath.Join("testdata", "*.csv"))
	require.NoError(t, err)

	got, err := sheet.Read(context.Background(), filepath.Join(dir, "out", "catalog -- minimal.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Title"}, got.Columns())
	assert.Equal(t, texts("Sunrise!", "Sunrise!", "Sunrise!", "Night (Live)"), got.Column("Title"))
}

func TestRunCommandErrors(t *testing.T) {
	templates := filepath.Join("testdata", "TEMPLATES.json")
	input := filepath.Join("testdata", "catalog.csv")

	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{
			name:        "no_inputs",
			args:        []string{"run", "-t", templates, "-n", "basic_test"},
			errContains: "requires at least 1 arg",
		},
		{
			name:        "no_template_file",
			args:        []string{"run", "-n", "basic_test", input},
			errContains: "no template file",
		},
		{
			name:        "unknown_template",
			args:        []string{"run", "-t", templates, "-n", "nope", input},
			errContains: "template not found",
		},
		{
			name:        "missing_template_file",
			args:        []string{"run", "-t", filepath.Join("testdata", "missing.json"), "-n", "basic_test", input},
			errContains: "loading template",
		},
		{
			name:        "output_flags_exclusive",
			args:        []string{"run", "-t", templates, "-n", "basic_test", "-o", "x.csv", "--output-dir", "y", input},
			errContains: "output",
		},
		{
			name:        "glob_without_match",
			args:        []string{"run", "-t", templates, "-n", "basic_test", filepath.Join("testdata", "*.xlsx")},
			errContains: "no input files",
		},
		{
			name:        "missing_settings_file",
			args:        []string{"-c", filepath.Join("testdata", "missing.yaml"), "transforms"},
			errContains: "loading settings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestTemplatesCommand(t *testing.T) {
	stdout, err := execute(t, "templates", "-t", filepath.Join("testdata", "TEMPLATES.json"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "basic_test")
	assert.Contains(t, stdout, "minimal")
	assert.Contains(t, stdout, "0.1")
}

func TestTransformsCommand(t *testing.T) {
	stdout, err := execute(t, "transforms")
	require.NoError(t, err)
	for _, name := range []string{"strip_illegal_chars", "build_track_title", "expand_main_tags_to_alts"} {
		assert.Contains(t, stdout, name)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "sheetmap version info")
	assert.Contains(t, stdout, "Go:")
}

func TestFormatVersion(t *testing.T) {
	got := FormatVersion(&VersionInfo{Version: "v1.2.3", Revision: "abc", Modified: true, Time: "now", GoVersion: "go1.23", Platform: "linux/amd64"})
	assert.Contains(t, got, "Version:   v1.2.3")
	assert.Contains(t, got, "Revision:  abc (modified)")
}
