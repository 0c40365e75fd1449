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

package validator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Validation run metrics
	validationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clcheck_validation_duration_seconds",
			Help:    "Duration of a complete validation run in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	domainDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clcheck_domain_duration_seconds",
			Help:    "Time taken to load and check a single domain dataset",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"domain"},
	)

	domainsValidated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clcheck_domains_validated_total",
			Help: "Total number of domain datasets processed",
		},
		[]string{"status"}, // checked or unreadable
	)

	rulesEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clcheck_rules_evaluated_total",
			Help: "Total number of flat rules evaluated against datasets",
		},
	)

	findingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clcheck_findings_total",
			Help: "Total number of findings reported",
		},
		[]string{"direction"}, // missingInData or missingInMetadata
	)
)

// WriteMetrics writes the process metrics to path in the text exposition
// format, for collection by the node exporter textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
