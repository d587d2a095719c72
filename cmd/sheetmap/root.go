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
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/cmd/sheetmap/commands"
	"github.com/walteh/sheetmap/cmd/sheetmap/opts"
	"github.com/walteh/sheetmap/pkg/config"
	"github.com/walteh/sheetmap/pkg/report"
	"github.com/walteh/sheetmap/pkg/transform"
)

// rootFlags are the flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool
}

// newRootCmd builds the command tree. ro is filled in before any command
// runs; human output goes to out and logs to errOut.
func newRootCmd(ro *opts.RootOpts, out, errOut io.Writer) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "sheetmap",
		Short: "Reshape spreadsheets with named mapping templates",
		Long: `sheetmap copies the columns of an input sheet into the shape declared by a
template, then runs the template's post-processing steps (title building,
catalog id cleanup, tag padding and propagation) before exporting the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return newRootOpts(cmd, flags, ro, out, errOut)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewRunCmd(ro),
		commands.NewTemplatesCmd(ro),
		commands.NewTransformsCmd(ro),
		newVersionCmd(),
	)

	return cmd
}

// newRootOpts loads settings, sets up logging and fills ro
func newRootOpts(cmd *cobra.Command, flags *rootFlags, ro *opts.RootOpts, out, errOut io.Writer) error {
	settings, err := config.Resolve(cmd.Context(), flags.configFile, ".")
	if err != nil {
		return errors.Errorf("loading settings: %w", err)
	}

	logger := setupLogging(errOut, flags.debug, settings.LogFormat)
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	logger.Debug().Str("settings", settings.Location()).Msg("settings resolved")

	ro.Settings = settings
	ro.Registry = transform.DefaultRegistry()
	ro.UserLogger = report.NewUserLoggerTo(ctx, out)
	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "settings file (default: .sheetmap.{yaml,yml,json,hcl} if present)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging builds the process logger. Console logs only show warnings
// unless debug is set, the user logger already prints progress.
func setupLogging(w io.Writer, debug bool, format string) zerolog.Logger {
	var (
		level = zerolog.WarnLevel
		lw    = io.Writer(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	)
	if format == config.LogFormatJSON {
		level, lw = zerolog.InfoLevel, w
	}
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(lw).Level(level).With().Timestamp().Logger()
}
