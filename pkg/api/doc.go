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

// Package api provides the HTTP entry point of the clcheckd service.
//
// This package is a thin wrapper around the reusable pkg/server package,
// configuring it with the check routes of pkg/server and the service
// section of the run configuration. It is shared by cmd/clcheckd and the
// "clcheck serve" command.
//
// # Usage
//
//	package main
//
//	import (
//	    "log"
//	    "github.com/NVIDIA/codelist-check/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application Endpoints (with rate limiting):
//   - POST /v1/check - Validate datasets against a define document
//   - POST /v1/rules - Return the resolved rule table of a define document
//
// System Endpoints:
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// Example request:
//
//	curl -X POST http://localhost:8080/v1/check \
//	  -d '{"define":"/srv/studies/x/define.xml","data":"/srv/studies/x/sdtm","numericCodes":true}'
//
// # Configuration
//
//   - CLCHECK_CONFIG: YAML configuration file (optional)
//   - PORT: HTTP server port when the file sets none (default: 8080)
//   - SHUTDOWN_TIMEOUT_SECONDS: graceful shutdown timeout
//   - LOG_LEVEL: Logging level (debug, info, warn, error)
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/codelist-check/pkg/api.version=1.0.0'"
package api
