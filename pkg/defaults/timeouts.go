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

package defaults

import "time"

// Check timeouts.
const (
	// CheckTimeout bounds a full resolve-and-validate run started from the CLI.
	CheckTimeout = 10 * time.Minute

	// CheckHandlerTimeout bounds a single check request served over HTTP.
	CheckHandlerTimeout = 2 * time.Minute
)

// Server timeouts for HTTP server configuration.
const (
	// ReadinessCheckTimeout bounds the storage checks behind /ready.
	ReadinessCheckTimeout = 5 * time.Second

	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout must exceed CheckHandlerTimeout so results can be written.
	ServerWriteTimeout = CheckHandlerTimeout + 30*time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 3 * time.Minute

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)
