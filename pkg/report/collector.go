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

package report

import (
	"sort"
	"sync"
	"time"

	"github.com/NVIDIA/codelist-check/pkg/header"
	"github.com/google/uuid"
)

// Collector accumulates the results of a run. It is safe for concurrent use;
// entries are only ever appended.
type Collector struct {
	mu sync.Mutex

	define string
	data   string
	start  time.Time
	rules  int

	domains      map[string]bool
	datasets     map[string]bool
	unresolved   []string
	unreferenced []string
	seen         map[string]bool
	warnings     []Warning
	warned       map[Warning]bool
	findings     map[Direction][]Finding
}

// NewCollector returns an empty collector for a run over the given inputs.
func NewCollector(define, data string) *Collector {
	return &Collector{
		define:   define,
		data:     data,
		start:    time.Now(),
		domains:  make(map[string]bool),
		datasets: make(map[string]bool),
		seen:     make(map[string]bool),
		warned:   make(map[Warning]bool),
		findings: make(map[Direction][]Finding),
	}
}

// SetRules records the size of the rule table and the domains it covers.
func (c *Collector) SetRules(rules int, domains []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = rules
	for _, d := range domains {
		c.domains[d] = true
	}
}

// AddDataset records that the dataset of domain was validated.
func (c *Collector) AddDataset(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets[domain] = true
}

// AddUnresolved records a rule reference with no definition. Repeats are ignored.
func (c *Collector) AddUnresolved(oid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key := "u:" + oid; !c.seen[key] {
		c.seen[key] = true
		c.unresolved = append(c.unresolved, oid)
	}
}

// AddUnreferenced records a rule definition nothing refers to. Repeats are ignored.
func (c *Collector) AddUnreferenced(oid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key := "r:" + oid; !c.seen[key] {
		c.seen[key] = true
		c.unreferenced = append(c.unreferenced, oid)
	}
}

// AddWarning records a warning. Identical warnings are kept once.
func (c *Collector) AddWarning(w Warning) {
	if w.Severity == "" {
		w.Severity = w.Code.Severity()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.warned[w] {
		return
	}
	c.warned[w] = true
	c.warnings = append(c.warnings, w)
}

// AddFinding records a finding. Findings with no values are dropped.
func (c *Collector) AddFinding(dir Direction, f Finding) {
	if len(f.Values) == 0 {
		return
	}
	f.Values = append([]string(nil), f.Values...)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findings[dir] = append(c.findings[dir], f)
}

// Report builds the ordered report. The collector stays usable.
func (c *Collector) Report(version string) *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := &Report{
		Define:            c.define,
		Data:              c.data,
		Unresolved:        append([]string{}, c.unresolved...),
		Unreferenced:      append([]string{}, c.unreferenced...),
		Warnings:          append([]Warning{}, c.warnings...),
		MissingInData:     append([]Finding{}, c.findings[MissingInData]...),
		MissingInMetadata: append([]Finding{}, c.findings[MissingInMetadata]...),
	}
	r.Init(header.KindReport, APIVersion, version)
	r.SetMetadata(header.MetadataRunID, uuid.NewString())

	sortFindings(r.MissingInData)
	sortFindings(r.MissingInMetadata)
	sort.SliceStable(r.Warnings, func(i, j int) bool {
		a, b := r.Warnings[i], r.Warnings[j]
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Message < b.Message
	})

	s := Summary{
		Rules:             c.rules,
		Domains:           len(c.domains),
		Datasets:          len(c.datasets),
		MissingInData:     len(r.MissingInData),
		MissingInMetadata: len(r.MissingInMetadata),
		Duration:          time.Since(c.start).Round(time.Millisecond).String(),
	}
	for _, w := range r.Warnings {
		if w.Severity == SeverityInfo {
			s.Notices++
		} else {
			s.Warnings++
		}
	}
	s.Status = status(s, len(r.Unresolved))
	r.Summary = s

	return r
}

// status grades a summary. A run whose datasets all failed to load is
// partial, not empty: the warnings say what could not be checked.
func status(s Summary, unresolved int) Status {
	switch {
	case s.Rules == 0:
		return StatusEmpty
	case s.Datasets == 0 && s.Warnings == 0:
		return StatusEmpty
	case s.MissingInData > 0 || s.MissingInMetadata > 0:
		return StatusFail
	case s.Warnings > 0 || unresolved > 0:
		return StatusPartial
	default:
		return StatusPass
	}
}

func sortFindings(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		if fs[i].Key != fs[j].Key {
			return fs[i].Key < fs[j].Key
		}
		return fs[i].Rule < fs[j].Rule
	})
}
