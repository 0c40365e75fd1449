// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/codelist-check/pkg/config"
	"github.com/NVIDIA/codelist-check/pkg/serializer"
)

const envPrefix = "CLCHECK_"

func env(key string) cli.ValueSourceChain {
	return cli.EnvVars(envPrefix + key)
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output destination: file path, afs URL (s3://, gs://), or - for stdout",
		Sources: env("OUTPUT"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage: fmt.Sprintf("output format (%s); default text on a terminal, yaml otherwise",
			strings.Join(serializer.SupportedFormats(), ", ")),
		Sources: env("FORMAT"),
	}
}

func dataFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "data",
		Aliases: []string{"D"},
		Usage:   "datasets: directory of .csv/.json files or a SQLite database (.db, sqlite://)",
		Sources: env("DATA"),
	}
}

func excludeFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "exclude-codelist",
		Usage:   "code list OID to skip (repeatable); replaces the default dictionaries",
		Sources: env("EXCLUDE_CODELISTS"),
	}
}

func delimiterFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "delimiter",
		Usage:   "separator that turns a single check value into a value set",
		Sources: env("DELIMITER"),
	}
}

// resolveFlags are shared by every command that resolves a define document.
func resolveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "define",
			Aliases: []string{"d"},
			Usage:   "define.xml location: file path or afs URL",
			Sources: env("DEFINE"),
		},
		excludeFlag(),
		delimiterFlag(),
	}
}

// loadConfig builds the run configuration: defaults, then the --config file,
// then flags and CLCHECK_* variables that were actually set.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadFile(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("define") {
		cfg.DefineURL = cmd.String("define")
	}
	if cmd.IsSet("data") {
		cfg.DataURL = cmd.String("data")
	}
	if cmd.IsSet("output") {
		cfg.Output = cmd.String("output")
	}
	if cmd.IsSet("format") {
		cfg.Format = cmd.String("format")
	}
	if cmd.IsSet("exclude-codelist") {
		cfg.ExcludedCodeLists = cmd.StringSlice("exclude-codelist")
	}
	if cmd.IsSet("delimiter") {
		cfg.Delimiter = cmd.String("delimiter")
	}
	if cmd.IsSet("concurrency") {
		cfg.Concurrency = int(cmd.Int("concurrency"))
	}
	if cmd.IsSet("numeric-codes") {
		cfg.NumericCodes = cmd.Bool("numeric-codes")
	}
	if cmd.IsSet("fail-on-finding") {
		cfg.FailOnFinding = cmd.Bool("fail-on-finding")
	}
	if cmd.IsSet("metrics-file") {
		cfg.MetricsFile = cmd.String("metrics-file")
	}

	slog.Debug("configuration loaded",
		"define", cfg.DefineURL,
		"data", cfg.DataURL,
		"format", cfg.Format,
		"concurrency", cfg.Concurrency,
		"numericCodes", cfg.NumericCodes)

	return cfg, nil
}

// outputFormat picks the format for output: the configured one when set,
// otherwise by file extension, otherwise text on a terminal and yaml elsewhere.
func outputFormat(configured, output string) (serializer.Format, error) {
	if configured != "" {
		f := serializer.Format(configured)
		if f.IsUnknown() {
			return "", fmt.Errorf("unknown output format: %q", configured)
		}
		return f, nil
	}

	if output != "" && output != "-" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".json":
			return serializer.FormatJSON, nil
		case ".yaml", ".yml":
			return serializer.FormatYAML, nil
		case ".txt":
			return serializer.FormatText, nil
		}
		return serializer.FormatYAML, nil
	}

	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return serializer.FormatText, nil
	}
	return serializer.FormatYAML, nil
}

// writeOutput serializes v in format. An empty output or "-" goes to the
// command's writer; anything else goes through NewFileWriterOrStdout.
func writeOutput(ctx context.Context, cmd *cli.Command, format serializer.Format, output string, v any) error {
	var ser serializer.Serializer
	if output == "" || output == "-" {
		w := cmd.Root().Writer
		if w == nil {
			w = os.Stdout
		}
		ser = serializer.NewWriter(format, w)
	} else {
		ser = serializer.NewFileWriterOrStdout(format, output)
	}
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	if err := ser.Serialize(ctx, v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
