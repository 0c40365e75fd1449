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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/codelist-check/pkg/header"
	"github.com/NVIDIA/codelist-check/pkg/report"
	"github.com/NVIDIA/codelist-check/pkg/serializer"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:                  "render",
		EnableShellCompletion: true,
		Usage:                 "Re-render a saved report in another format",
		Description: `Read a report written by "check" in JSON or YAML (local path or afs URL)
and write it again, typically as the plain text layout.

# Examples

  clcheck render --input s3://bucket/run/report.json --format text -o codelist_check.txt`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Required: true,
				Usage:    "saved report (.json, .yaml)",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := outputFormat(cmd.String("format"), cmd.String("output"))
			if err != nil {
				return exitError(err)
			}

			input := cmd.String("input")
			rep, err := serializer.FromFile[report.Report](ctx, input)
			if err != nil {
				return exitError(err)
			}
			if rep.Kind != header.KindReport {
				return exitError(fmt.Errorf("%s is not a report (kind %q)", input, rep.Kind))
			}

			return writeOutput(ctx, cmd, format, cmd.String("output"), rep)
		},
	}
}
