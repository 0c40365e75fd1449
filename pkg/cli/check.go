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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/codelist-check/pkg/config"
	"github.com/NVIDIA/codelist-check/pkg/defaults"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/resolver"
	"github.com/NVIDIA/codelist-check/pkg/storage"
	"github.com/NVIDIA/codelist-check/pkg/validator"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:                  "check",
		EnableShellCompletion: true,
		Usage:                 "Validate datasets against the code lists of a define.xml",
		Description: `Resolve the define document into one rule per checked variable and
condition, then compare every dataset against it in both directions:

  missing in dataset     codes the define declares that the data never uses
  missing in define-XML  values the data uses that the define never declares

Blank values are ignored on the data side. Numeric columns are rendered as
float text ("1.0") unless --numeric-codes is set.

# Examples

Check a directory of CSV / Dataset-JSON files:
  clcheck check --define study/define.xml --data study/sdtm

Check a SQLite database and write JSON to object storage:
  clcheck check -d define.xml -D sdtm.db -o s3://bucket/run/report.json

Fail CI when any finding is reported:
  clcheck check -d define.xml -D sdtm --fail-on-finding

# Exit codes

  0  success (findings do not fail the run unless --fail-on-finding)
  1  general error
  3  malformed define metadata
  4  findings reported with --fail-on-finding`,
		Flags: append(resolveFlags(),
			dataFlag(),
			&cli.IntFlag{
				Name:    "concurrency",
				Usage:   "number of domains validated in parallel",
				Sources: env("CONCURRENCY"),
			},
			&cli.BoolFlag{
				Name:    "numeric-codes",
				Usage:   "compare numeric values with codes numerically instead of as float text",
				Sources: env("NUMERIC_CODES"),
			},
			&cli.BoolFlag{
				Name:    "fail-on-finding",
				Usage:   "exit with status 4 when any finding is reported",
				Sources: env("FAIL_ON_FINDING"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "write Prometheus metrics in text format to this file after the run",
				Sources: env("METRICS_FILE"),
			},
			outputFlag(),
			formatFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return exitError(err)
			}
			if err := cfg.ValidateCheck(); err != nil {
				return exitError(err)
			}
			if cfg.DataURL == "" {
				return exitError(clerrors.New(clerrors.ErrCodeInvalidRequest, "data location is required"))
			}

			format, err := outputFormat(cfg.Format, cfg.Output)
			if err != nil {
				return exitError(err)
			}

			ctx, cancel := context.WithTimeout(ctx, defaults.CheckTimeout)
			defer cancel()

			slog.Info("checking codelists",
				"define", cfg.DefineURL,
				"data", cfg.DataURL,
				"numericCodes", cfg.NumericCodes)

			rep, err := newPipeline(cfg).Check(ctx, cfg.DefineURL, cfg.DataURL)
			if err != nil {
				return exitError(err)
			}

			if err := writeOutput(ctx, cmd, format, cfg.Output, rep); err != nil {
				return exitError(err)
			}

			if cfg.MetricsFile != "" {
				if err := validator.WriteMetrics(cfg.MetricsFile); err != nil {
					slog.Warn("failed to write metrics", "error", err, "path", cfg.MetricsFile)
				}
			}

			slog.Info("check completed",
				"status", rep.Summary.Status,
				"rules", rep.Summary.Rules,
				"datasets", rep.Summary.Datasets,
				"missingInData", rep.Summary.MissingInData,
				"missingInMetadata", rep.Summary.MissingInMetadata,
				"warnings", rep.Summary.Warnings,
				"duration", rep.Summary.Duration)

			if cfg.FailOnFinding && rep.HasFindings() {
				return cli.Exit(fmt.Sprintf("check failed: %d missing in dataset, %d missing in define-XML",
					rep.Summary.MissingInData, rep.Summary.MissingInMetadata), ExitFindings)
			}
			return nil
		},
	}
}

// newPipeline wires the resolver and validator from cfg.
func newPipeline(cfg *config.Config) *validator.Pipeline {
	res := resolver.New(
		resolver.WithExcludedCodeLists(cfg.ExcludedCodeLists...),
		resolver.WithDelimiter(cfg.Delimiter),
		resolver.WithVersion(version),
	)
	val := validator.New(
		validator.WithVersion(version),
		validator.WithConcurrency(cfg.Concurrency),
		validator.WithNumericCodes(cfg.NumericCodes),
	)
	return validator.NewPipeline(storage.NewService(), res, val)
}

// exitError attaches the process exit code for err.
func exitError(err error) error {
	if clerrors.IsCode(err, clerrors.ErrCodeMalformedMetadata) {
		return cli.Exit(err, ExitMalformed)
	}
	return cli.Exit(err, ExitError)
}
