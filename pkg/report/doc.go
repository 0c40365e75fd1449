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

// Package report collects the outcome of a codelist check.
//
// A Collector is shared by the validation workers. It records unresolved and
// unreferenced rule identifiers, warnings and findings in both directions:
//
//   - missingInData: codes the code list declares but no (conditioned) row uses
//   - missingInMetadata: values rows use that the code list does not declare
//
// Collector.Report orders everything deterministically (findings by key, then
// rule position; warnings by code, then subject) so two runs over the same
// inputs produce the same findings, and computes a Status:
//
//   - pass: every rule was checked, nothing differed
//   - fail: at least one finding
//   - partial: no findings, but warnings limited what was checked
//   - empty: no rules or no datasets, nothing was checked
//
// Reports serialize as JSON or YAML with a CodelistReport header, or as text
// through WriteText.
package report
