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

// Package serializer writes reports and rule tables in JSON, YAML, table or
// text form, and reads saved JSON/YAML documents back.
//
// # Formats
//
//   - json: indented JSON via encoding/json
//   - yaml: two-space YAML via gopkg.in/yaml.v3
//   - table: dotted field paths in two aligned columns
//   - text: values implementing TextWriter render themselves; others fall back to YAML
//
// # Destinations
//
// NewFileWriterOrStdout picks a destination from a path:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatJSON, "gs://bucket/report.json")
//	defer w.(serializer.Closer).Close()
//	err := w.Serialize(ctx, rep)
//
// An empty path or "-" writes to stdout. Object storage URLs are written
// through afs; local paths are created with os.Create.
//
// # Reading
//
//	rep, err := serializer.FromFile[report.Report](ctx, "report.yaml")
//
// RespondJSON is the HTTP helper used by the server package.
package serializer
