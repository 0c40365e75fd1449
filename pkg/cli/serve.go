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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/codelist-check/pkg/api"
	"github.com/NVIDIA/codelist-check/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the HTTP check service",
		Description: `Serve POST /v1/check and POST /v1/rules, plus /health, /ready and /metrics.

Request locations are restricted to --allowed-root when given.

# Examples

  clcheck serve --port 8080 --allowed-root /srv/studies
  curl -s -XPOST localhost:8080/v1/check \
    -d '{"define":"/srv/studies/x/define.xml","data":"/srv/studies/x/sdtm"}'`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Usage:   "listen address",
				Sources: env("ADDRESS"),
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "listen port",
				Sources: env("PORT"),
			},
			&cli.StringSliceFlag{
				Name:    "allowed-root",
				Usage:   "location prefix requests may read from (repeatable)",
				Sources: env("ALLOWED_ROOTS"),
			},
			&cli.BoolFlag{
				Name:    "numeric-codes",
				Usage:   "default for requests that do not set numericCodes",
				Sources: env("NUMERIC_CODES"),
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Usage:   "number of domains validated in parallel per request",
				Sources: env("CONCURRENCY"),
			},
			excludeFlag(),
			delimiterFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return exitError(err)
			}
			if cmd.IsSet("address") {
				cfg.Server.Address = cmd.String("address")
			}
			if cmd.IsSet("port") {
				cfg.Server.Port = int(cmd.Int("port"))
			}
			if cmd.IsSet("allowed-root") {
				cfg.Server.AllowedRoots = cmd.StringSlice("allowed-root")
			}
			if err := cfg.Validate(); err != nil {
				return exitError(err)
			}

			if err := server.Run(ctx, api.Options(cfg, name, version)...); err != nil {
				return exitError(err)
			}
			return nil
		},
	}
}
