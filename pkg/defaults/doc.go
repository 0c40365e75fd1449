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

// Package defaults provides centralized configuration constants for codelist-check.
//
// This package defines timeout values, input size limits, concurrency bounds
// and the dictionary code lists excluded from checking. Centralizing these
// values keeps the CLI, the HTTP service and the library consistent.
//
// # Categories
//
//   - Check timeouts: whole-run and per-request bounds
//   - Server timeouts: HTTP server configuration
//   - Input limits: define.xml and dataset size caps
//   - Dictionary code lists: CL.DRUGDICT and CL.MEDDRA
//
// # Usage
//
//	import "github.com/NVIDIA/codelist-check/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CheckTimeout)
//	defer cancel()
package defaults
