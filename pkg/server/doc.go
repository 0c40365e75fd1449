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

// Package server exposes codelist checks over HTTP.
//
// # Endpoints
//
//	POST /v1/check   resolve a define.xml and validate a dataset location; responds with the report
//	POST /v1/rules   resolve a define.xml; responds with the rule table
//	GET  /health     liveness
//	GET  /ready      readiness, gated by WithReadinessCheck when set
//	GET  /metrics    Prometheus metrics, API requests labelled by route
//
// Request body:
//
//	{
//	  "define": "s3://bucket/study/define.xml",
//	  "data": "s3://bucket/study/sdtm",
//	  "numericCodes": true,
//	  "excludedCodeLists": ["CL.MEDDRA"],
//	  "delimiter": ","
//	}
//
// Locations are checked against the configured allowed roots before anything
// is read. Bodies larger than the configured limit are rejected with 413.
//
// # Errors
//
// Failures are returned as ErrorResponse with the structured error code:
// MALFORMED_METADATA maps to 422, NOT_FOUND to 404, INVALID_REQUEST to 400,
// TIMEOUT to 504 and RATE_LIMIT_EXCEEDED to 429.
//
// # Middleware
//
// API routes run behind metrics, API version negotiation, request IDs
// (X-Request-Id, UUID), panic recovery, token bucket rate limiting
// (golang.org/x/time/rate) and debug request logging.
//
// # Usage
//
//	h := server.NewCheckHandler(storage.NewService(), cfg, version)
//	err := server.Run(ctx,
//	    server.WithConfig(srvCfg),
//	    server.WithHandler(h.Routes()),
//	    server.WithReadinessCheck(h.Ready),
//	)
package server
