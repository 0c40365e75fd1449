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

// Package config defines the run configuration of the codelist checker.
//
// Values are layered, later sources winning:
//
//  1. Default()
//  2. a YAML file passed with --config (unknown keys rejected)
//  3. CLCHECK_* environment variables
//  4. command-line flags
//
// The CLI applies layers 3 and 4 through urfave/cli flag sources; this package
// owns the first two and validation.
//
// Example file:
//
//	define: ./define.xml
//	data: ./datasets
//	concurrency: 8
//	excludedCodeLists: [CL.DRUGDICT, CL.MEDDRA]
//	server:
//	  port: 8080
//	  allowedRoots: [/srv/studies]
package config
