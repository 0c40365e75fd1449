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
)

func rulesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "rules",
		EnableShellCompletion: true,
		Usage:                 "Resolve a define.xml and print the rule table",
		Description: `Resolve the define document without reading any dataset and print one
rule per checked variable and condition, including the condition text, the
declared codes, unresolved and unreferenced rule definitions, and warnings.

# Examples

  clcheck rules --define study/define.xml --format json`,
		Flags: append(resolveFlags(), outputFlag(), formatFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return exitError(err)
			}
			if err := cfg.ValidateCheck(); err != nil {
				return exitError(err)
			}

			format, err := outputFormat(cfg.Format, cfg.Output)
			if err != nil {
				return exitError(err)
			}

			table, err := newPipeline(cfg).Rules(ctx, cfg.DefineURL)
			if err != nil {
				return exitError(err)
			}

			if err := writeOutput(ctx, cmd, format, cfg.Output, table); err != nil {
				return exitError(err)
			}
			return nil
		},
	}
}
