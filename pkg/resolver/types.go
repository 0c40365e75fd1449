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

package resolver

import (
	"sort"
	"strings"
	"sync"

	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/header"
	"github.com/NVIDIA/codelist-check/pkg/predicate"
	"github.com/NVIDIA/codelist-check/pkg/report"
)

// FlatRule is one checkable unit: the codes a variable may hold, optionally
// restricted to the rows a predicate selects.
type FlatRule struct {
	Key         string   `json:"key" yaml:"key"`
	Domain      string   `json:"domain" yaml:"domain"`
	Variable    string   `json:"variable" yaml:"variable"`
	ItemOID     string   `json:"itemOid" yaml:"itemOid"`
	CodeListOID string   `json:"codeListOid" yaml:"codeListOid"`
	DataType    string   `json:"dataType,omitempty" yaml:"dataType,omitempty"`
	Codes       []string `json:"codes" yaml:"codes"`

	// Rule is the 1-based position among the rules sharing Key.
	Rule int `json:"rule" yaml:"rule"`

	// Condition is the canonical text of Predicate; empty when unconditional.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	RuleOID   string `json:"ruleOid,omitempty" yaml:"ruleOid,omitempty"`

	Predicate *predicate.Predicate `json:"-" yaml:"-"`
}

// Numeric reports whether the define types the variable as a number.
// Character-typed and untyped variables compare as text.
func (r FlatRule) Numeric() bool {
	switch strings.ToLower(r.DataType) {
	case "integer", "float", "double", "decimal":
		return true
	default:
		return false
	}
}

// Conditional reports whether the rule applies to a subset of rows.
func (r FlatRule) Conditional() bool {
	return r.Predicate != nil
}

// RuleTable is the resolved rule set of a define.xml document. Rules may be
// replaced or appended to; Lookup reindexes when the slice changes. Edit a
// rule's Key in place only before the first Lookup.
type RuleTable struct {
	header.Header `json:",inline" yaml:",inline"`

	// Define is the location the document was loaded from, when known.
	Define        string     `json:"define,omitempty" yaml:"define,omitempty"`
	DefineVersion string     `json:"defineVersion,omitempty" yaml:"defineVersion,omitempty"`
	Rules         []FlatRule `json:"rules" yaml:"rules"`

	// Unresolved lists rule references with no definition, each once, in first-seen order.
	Unresolved []string `json:"unresolved" yaml:"unresolved"`

	// Unreferenced lists rule definitions nothing refers to, in document order.
	Unreferenced []string `json:"unreferenced" yaml:"unreferenced"`

	Warnings []report.Warning `json:"warnings" yaml:"warnings"`

	mu      sync.Mutex
	index   map[string][]int
	indexed []FlatRule // the Rules slice index was built over
}

func newRuleTable(rules []FlatRule) *RuleTable {
	return &RuleTable{Rules: rules, Unresolved: []string{}, Unreferenced: []string{}, Warnings: []report.Warning{}}
}

// Lookup returns the rules of one domain variable in document order.
// Safe for concurrent use.
func (t *RuleTable) Lookup(domain, variable string) []FlatRule {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.indexCurrent() {
		t.index = make(map[string][]int)
		for i, r := range t.Rules {
			t.index[r.Key] = append(t.index[r.Key], i)
		}
		t.indexed = t.Rules
	}

	idx := t.index[domain+"."+variable]
	if len(idx) == 0 {
		return nil
	}
	rules := make([]FlatRule, len(idx))
	for i, j := range idx {
		rules[i] = t.Rules[j]
	}
	return rules
}

// indexCurrent reports whether index covers the current Rules slice: same
// length over the same backing array.
func (t *RuleTable) indexCurrent() bool {
	if t.index == nil || len(t.indexed) != len(t.Rules) {
		return false
	}
	return len(t.Rules) == 0 || &t.indexed[0] == &t.Rules[0]
}

// Registry maps each domain to its sorted checked variables.
func (t *RuleTable) Registry() map[string][]string {
	reg := make(map[string][]string)
	seen := make(map[string]bool)
	for _, r := range t.Rules {
		if seen[r.Key] {
			continue
		}
		seen[r.Key] = true
		reg[r.Domain] = append(reg[r.Domain], r.Variable)
	}
	for _, vars := range reg {
		sort.Strings(vars)
	}
	return reg
}

// ForDomain returns the rules of domain in document order.
func (t *RuleTable) ForDomain(domain string) []FlatRule {
	var rules []FlatRule
	for _, r := range t.Rules {
		if r.Domain == domain {
			rules = append(rules, r)
		}
	}
	return rules
}

// Domains returns the sorted domains with at least one rule.
func (t *RuleTable) Domains() []string {
	reg := t.Registry()
	domains := make([]string, 0, len(reg))
	for d := range reg {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// KeyOf splits an ItemOID into the domain and variable it checks:
// IT.DM.SEX and IT.DM.SEX.ADULT both check DM.SEX.
func KeyOf(itemOID string) (domain, variable string, err error) {
	parts := strings.Split(strings.TrimSpace(itemOID), ".")
	if len(parts) < 3 || parts[1] == "" || parts[2] == "" {
		return "", "", clerrors.NewWithContext(clerrors.ErrCodeMalformedMetadata,
			"item OID needs prefix, domain and variable components", map[string]any{"itemOID": itemOID})
	}
	return parts[1], parts[2], nil
}
