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

package api

import (
	"context"
	"log/slog"
	"os"

	"github.com/NVIDIA/codelist-check/pkg/config"
	"github.com/NVIDIA/codelist-check/pkg/logging"
	"github.com/NVIDIA/codelist-check/pkg/server"
	"github.com/NVIDIA/codelist-check/pkg/storage"
)

const (
	name           = "clcheckd"
	versionDefault = "dev"

	// configEnv names the optional configuration file of the daemon.
	configEnv = "CLCHECK_CONFIG"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/codelist-check/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Options returns the server options of the check service for cfg:
// the service section of cfg applied to the server defaults, the check and
// rules routes, and readiness gated on the check handler's storage.
func Options(cfg *config.Config, name, version string) []server.Option {
	srvCfg := server.NewConfig()
	srvCfg.Name = name
	srvCfg.Version = version
	srvCfg.Apply(cfg.Server)

	handler := server.NewCheckHandler(storage.NewService(), cfg, version)

	return []server.Option{
		server.WithConfig(srvCfg),
		server.WithHandler(handler.Routes()),
		server.WithReadinessCheck(handler.Ready),
	}
}

// Serve starts the API server and blocks until shutdown.
// Configuration comes from the file named by CLCHECK_CONFIG when set.
// Returns an error if the configuration is invalid or the server fails.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	cfg, err := config.LoadFile(os.Getenv(configEnv))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return err
	}

	if err := server.Run(ctx, Options(cfg, name, version)...); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
