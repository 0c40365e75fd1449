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

// Package cli implements the clcheck command-line interface.
//
// # Overview
//
// clcheck validates clinical datasets against the controlled terminology a
// CDISC define.xml declares. Every variable bound to a code list, optionally
// restricted by a value-level WhereClause, becomes one rule; each rule is
// compared against the dataset in both directions.
//
// # Commands
//
// check - Compare datasets with the define document:
//
//	clcheck check --define study/define.xml --data study/sdtm [--numeric-codes]
//
// Datasets are read from a directory of .csv and Dataset-JSON files or from a
// SQLite database. The report lists codes missing in the dataset, values
// missing in the define document, unresolved WhereClause references, and
// WhereClauses nothing refers to.
//
// rules - Print the resolved rule table without reading any data:
//
//	clcheck rules --define study/define.xml --format json
//
// render - Re-render a saved report:
//
//	clcheck render --input report.json --format text -o codelist_check.txt
//
// serve - Run the HTTP API (POST /v1/check, POST /v1/rules):
//
//	clcheck serve --port 8080 --allowed-root /data/studies
//
// # Global Flags
//
//	--config, -c     YAML configuration file
//	--log-level      Logging verbosity (debug, info, warn, error)
//
// # Output Formats
//
// text is the flat layout of codelist_check.txt and the default on a terminal.
// yaml is the default otherwise; json and table are also supported. When
// --output names a file, its extension picks the format unless --format is set.
// Outputs may be afs URLs (s3://, gs://, mem://).
//
// # Environment Variables
//
// Every command flag can be set as CLCHECK_<FLAG>, for example CLCHECK_DEFINE,
// CLCHECK_DATA or CLCHECK_NUMERIC_CODES. Flags win over the environment,
// which wins over the configuration file.
//
//	LOG_LEVEL        Logging verbosity
//	CLCHECK_CONFIG   Configuration file
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, unreadable input)
//	3  Malformed define metadata
//	4  Findings reported with --fail-on-finding
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/codelist-check/pkg/cli.version=1.0.0'"
package cli
