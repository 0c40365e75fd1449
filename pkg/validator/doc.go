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

// Package validator cross-checks study datasets against a resolved rule table.
//
// For every FlatRule of a domain, the rows the rule applies to (all rows, or
// the rows its predicate selects) are reduced to the distinct non-null values
// of the variable, and compared with the declared codes in both directions:
//
//   - missingInData: declared codes no selected row uses, in declared order
//   - missingInMetadata: used values the codes do not declare, sorted, with
//     blank values left out
//
// A rule whose variable or condition fields are not columns of the dataset
// is skipped with a warning; other rules of the same dataset still run.
//
// # Numeric values
//
// Numeric values compare in float text form, so integer 1 is "1.0" and does
// not match code "1". Integer-coded lists therefore report mismatches in both
// directions. WithNumericCodes(true) switches to numeric comparison; it is
// off by default so results match the established float rendering.
//
// # Usage
//
//	v := validator.New(
//	    validator.WithVersion(version),
//	    validator.WithConcurrency(8),
//	)
//	rep, err := v.Validate(ctx, table, src)
//
// Datasets are checked concurrently (bounded by WithConcurrency) and merged
// into a report.Collector. CheckDataset runs the comparison for a single
// in-memory dataset without any concurrency or metrics.
//
// # Metrics
//
// Validation records Prometheus metrics (clcheck_validation_duration_seconds,
// clcheck_domain_duration_seconds, clcheck_domains_validated_total,
// clcheck_rules_evaluated_total, clcheck_findings_total). WriteMetrics dumps
// them to a node exporter textfile.
package validator
