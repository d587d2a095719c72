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

// Package config loads the optional sheetmap settings file. Settings provide
// defaults for the command line; flags always win.
package config

import (
	"gitlab.com/tozd/go/errors"
)

// 📝 Log output formats
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// DefaultFileNames are searched, in order, when no settings file is given
var DefaultFileNames = []string{".sheetmap.yaml", ".sheetmap.yml", ".sheetmap.json", ".sheetmap.hcl"}

// ErrInvalidSettings is returned by Validate
var ErrInvalidSettings = errors.Base("invalid settings")

// ⚙️ Settings is the content of a settings file
type Settings struct {
	TemplatePath string `json:"template_path" yaml:"template_path" hcl:"template_path,optional"` // template file
	TemplateName string `json:"template_name" yaml:"template_name" hcl:"template_name,optional"` // template inside it
	OutputDir    string `json:"output_dir" yaml:"output_dir" hcl:"output_dir,optional"`          // export directory
	Jobs         int    `json:"jobs" yaml:"jobs" hcl:"jobs,optional"`                            // inputs processed at once
	LogFormat    string `json:"log_format" yaml:"log_format" hcl:"log_format,optional"`          // console or json

	location string
}

// 🏭 Default returns the settings used when no file is found
func Default() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if s.Jobs == 0 {
		s.Jobs = 1
	}
	if s.LogFormat == "" {
		s.LogFormat = LogFormatConsole
	}
}

// Location is the file the settings were loaded from, empty for defaults
func (s *Settings) Location() string {
	return s.location
}

// ✅ Validate checks value ranges
func Validate(s *Settings) error {
	if s.Jobs < 0 {
		return errors.Errorf("%w: jobs must not be negative, got %d", ErrInvalidSettings, s.Jobs)
	}
	switch s.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		return errors.Errorf("%w: log_format must be %q or %q, got %q", ErrInvalidSettings, LogFormatConsole, LogFormatJSON, s.LogFormat)
	}
	return nil
}
