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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/codelist-check/pkg/dataset"
	"github.com/NVIDIA/codelist-check/pkg/defaults"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/report"
	"github.com/NVIDIA/codelist-check/pkg/resolver"
	"golang.org/x/sync/errgroup"
)

// Validator checks study datasets against a resolved rule table.
type Validator struct {
	// Version is the validator version (typically the CLI version).
	Version string

	// Concurrency is the number of domains checked in parallel.
	Concurrency int

	// NumericCodes enables numeric code comparison.
	NumericCodes bool
}

// Option is a functional option for configuring Validator instances.
type Option func(*Validator)

// WithVersion returns an Option that sets the Validator version string.
func WithVersion(version string) Option {
	return func(v *Validator) {
		v.Version = version
	}
}

// WithConcurrency sets the number of domains checked in parallel.
// Values outside 1..MaxConcurrency are clamped.
func WithConcurrency(n int) Option {
	return func(v *Validator) {
		v.Concurrency = min(max(n, 1), defaults.MaxConcurrency)
	}
}

// WithNumericCodes compares numeric values with codes by number instead of
// by their float text. This departs from the default float rendering.
func WithNumericCodes(enabled bool) Option {
	return func(v *Validator) {
		v.NumericCodes = enabled
	}
}

// New creates a new Validator with the provided options.
func New(opts ...Option) *Validator {
	v := &Validator{Concurrency: defaults.DefaultConcurrency}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every dataset of src whose domain has rules in table.
// Problems confined to one domain become warnings; only cancellation and
// an unreadable source fail the run.
func (v *Validator) Validate(ctx context.Context, table *resolver.RuleTable, src dataset.Source) (*report.Report, error) {
	start := time.Now()

	if table == nil {
		return nil, clerrors.New(clerrors.ErrCodeInvalidRequest, "rule table cannot be nil")
	}
	if src == nil {
		return nil, clerrors.New(clerrors.ErrCodeInvalidRequest, "dataset source cannot be nil")
	}

	collector := report.NewCollector(table.Define, src.Location())
	ruleDomains := table.Domains()
	collector.SetRules(len(table.Rules), ruleDomains)
	for _, oid := range table.Unresolved {
		collector.AddUnresolved(oid)
	}
	for _, oid := range table.Unreferenced {
		collector.AddUnreferenced(oid)
	}
	for _, w := range table.Warnings {
		collector.AddWarning(w)
	}

	available, err := src.Domains(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover datasets: %w", err)
	}
	present := make(map[string]bool, len(available))
	for _, d := range available {
		present[strings.ToUpper(d)] = true
	}

	var targets []string
	for _, d := range ruleDomains {
		if present[strings.ToUpper(d)] {
			targets = append(targets, d)
			continue
		}
		collector.AddWarning(report.NewWarning(report.WarnTargetMissing, d,
			fmt.Sprintf("no dataset for domain %s in %s", d, src.Location())))
	}

	opts := CheckOptions{NumericCodes: v.NumericCodes}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(v.Concurrency, 1))

	for _, domain := range targets {
		rules := table.ForDomain(domain)
		g.Go(func() error {
			return v.validateDomain(gctx, src, domain, rules, opts, collector)
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, clerrors.Wrap(clerrors.ErrCodeTimeout, "validation timed out", err)
		}
		return nil, err
	}

	result := collector.Report(v.Version)
	validationDuration.Observe(time.Since(start).Seconds())
	findingsTotal.WithLabelValues(string(report.MissingInData)).Add(float64(len(result.MissingInData)))
	findingsTotal.WithLabelValues(string(report.MissingInMetadata)).Add(float64(len(result.MissingInMetadata)))

	slog.Debug("validation completed",
		"rules", result.Summary.Rules,
		"datasets", result.Summary.Datasets,
		"missingInData", result.Summary.MissingInData,
		"missingInMetadata", result.Summary.MissingInMetadata,
		"warnings", result.Summary.Warnings,
		"status", result.Summary.Status,
		"duration", time.Since(start))

	return result, nil
}

// validateDomain loads and checks one dataset, merging into collector.
func (v *Validator) validateDomain(ctx context.Context, src dataset.Source, domain string,
	rules []resolver.FlatRule, opts CheckOptions, collector *report.Collector) error {

	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	ds, err := src.Load(ctx, strings.ToUpper(domain))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		slog.Warn("dataset unreadable", "domain", domain, "error", err)
		collector.AddWarning(report.NewWarning(report.WarnDatasetUnreadable, domain, err.Error()))
		domainsValidated.WithLabelValues("unreadable").Inc()
		return nil
	}

	res, err := checkDataset(ctx, ds, rules, opts)
	if err != nil {
		return err
	}

	collector.AddDataset(domain)
	for _, w := range res.Warnings {
		collector.AddWarning(w)
	}
	for _, f := range res.MissingInData {
		collector.AddFinding(report.MissingInData, f)
	}
	for _, f := range res.MissingInMetadata {
		collector.AddFinding(report.MissingInMetadata, f)
	}

	domainsValidated.WithLabelValues("checked").Inc()
	rulesEvaluated.Add(float64(res.Rules))
	domainDuration.WithLabelValues(domain).Observe(time.Since(start).Seconds())

	slog.Debug("domain checked",
		"domain", domain,
		"rows", len(ds.Rows),
		"rules", res.Rules,
		"missingInData", len(res.MissingInData),
		"missingInMetadata", len(res.MissingInMetadata),
		"duration", time.Since(start))

	return nil
}
