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
	"fmt"
	"log/slog"

	"github.com/NVIDIA/codelist-check/pkg/defaults"
	"github.com/NVIDIA/codelist-check/pkg/define"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/header"
	"github.com/NVIDIA/codelist-check/pkg/predicate"
	"github.com/NVIDIA/codelist-check/pkg/report"
	"github.com/NVIDIA/codelist-check/pkg/version"
)

// MinDefineVersion is the oldest Define-XML version resolved without a warning.
var MinDefineVersion = version.MustParseVersion("2.0")

// Resolver turns a define.xml document into a RuleTable.
type Resolver struct {
	excluded map[string]bool
	compiler *predicate.Compiler
	version  string
}

// Option is a functional option for configuring Resolver instances.
type Option func(*Resolver)

// WithExcludedCodeLists replaces the dictionary code lists skipped during resolution.
func WithExcludedCodeLists(oids ...string) Option {
	return func(r *Resolver) {
		r.excluded = make(map[string]bool, len(oids))
		for _, oid := range oids {
			r.excluded[oid] = true
		}
	}
}

// WithDelimiter sets the separator that turns one check value into a set.
func WithDelimiter(delimiter string) Option {
	return func(r *Resolver) {
		r.compiler = predicate.NewCompiler(delimiter)
	}
}

// WithVersion sets the tool version stamped into the rule table header.
func WithVersion(v string) Option {
	return func(r *Resolver) {
		r.version = v
	}
}

// New creates a Resolver with the given options.
func New(opts ...Option) *Resolver {
	r := &Resolver{compiler: predicate.NewCompiler(defaults.CheckValueDelimiter)}
	WithExcludedCodeLists(defaults.ExcludedCodeLists()...)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// occurrence is one (variable, code list) pairing of an ItemDef.
type occurrence struct {
	itemOID     string
	codeListOID string
	dataType    string
}

// linkage maps rule OIDs to the item OIDs that use them.
type linkage struct {
	order  []string
	items  map[string][]string
	linked map[string]bool
}

// ruleSet is the outcome of compiling rule definitions against a linkage.
type ruleSet struct {
	predicates   map[string][]*predicate.Predicate // item OID -> predicates
	unresolved   []string
	unreferenced []string
}

// codeSet holds the resolved values of each code list.
type codeSet struct {
	codes     map[string][]string
	dataTypes map[string]string
	external  map[string]bool
}

// Resolve runs the passes over doc. Malformed metadata aborts with
// MALFORMED_METADATA; everything else degrades to warnings on the table.
func (r *Resolver) Resolve(doc *define.Document) (*RuleTable, error) {
	if doc == nil {
		return nil, clerrors.New(clerrors.ErrCodeMalformedMetadata, "no define document")
	}

	occurrences := r.variablePass(doc)

	link, err := r.linkagePass(doc)
	if err != nil {
		return nil, err
	}

	rules, err := r.rulePass(doc, link)
	if err != nil {
		return nil, err
	}

	codes, err := r.codelistPass(doc)
	if err != nil {
		return nil, err
	}

	flat, warnings, err := r.flatten(occurrences, link, rules, codes)
	if err != nil {
		return nil, err
	}

	table := newRuleTable(flat)
	table.Init(header.KindRuleTable, report.APIVersion, r.version)
	table.DefineVersion = doc.DefineVersion
	table.Unresolved = append(table.Unresolved, rules.unresolved...)
	table.Unreferenced = append(table.Unreferenced, rules.unreferenced...)

	if w, ok := checkDefineVersion(doc.DefineVersion); !ok {
		table.Warnings = append(table.Warnings, w)
	}
	for _, oid := range rules.unresolved {
		table.Warnings = append(table.Warnings, report.NewWarning(report.WarnUnresolvedReference, oid,
			"rule is referenced by a value list but never defined; its variables are not checked under it"))
	}
	for _, oid := range rules.unreferenced {
		table.Warnings = append(table.Warnings, report.NewWarning(report.WarnUnreferencedRule, oid,
			"rule is defined but no value list refers to it"))
	}
	table.Warnings = append(table.Warnings, warnings...)

	slog.Debug("define resolved",
		"rules", len(table.Rules),
		"domains", len(table.Domains()),
		"unresolved", len(table.Unresolved),
		"unreferenced", len(table.Unreferenced),
		"warnings", len(table.Warnings))

	return table, nil
}

// variablePass collects every (item, code list) occurrence outside the
// excluded dictionaries, in document order.
func (r *Resolver) variablePass(doc *define.Document) []occurrence {
	var occ []occurrence
	for _, item := range doc.ItemDefs {
		for _, cl := range item.CodeListRefs {
			if r.excluded[cl] {
				continue
			}
			occ = append(occ, occurrence{itemOID: item.OID, codeListOID: cl, dataType: item.DataType})
		}
	}
	return occ
}

// linkagePass pairs each WhereClauseRef with the most recent ItemRef of the
// same value list.
func (r *Resolver) linkagePass(doc *define.Document) (*linkage, error) {
	link := &linkage{items: make(map[string][]string), linked: make(map[string]bool)}
	for _, vl := range doc.ValueLists {
		current := ""
		for _, ref := range vl.Refs {
			switch ref.Kind {
			case define.RefItem:
				current = ref.OID
			case define.RefWhereClause:
				if current == "" {
					return nil, clerrors.NewWithContext(clerrors.ErrCodeMalformedMetadata,
						"where clause reference precedes any item reference",
						map[string]any{"valueList": vl.OID, "rule": ref.OID})
				}
				items, seen := link.items[ref.OID]
				if !seen {
					link.order = append(link.order, ref.OID)
				}
				if !contains(items, current) {
					link.items[ref.OID] = append(items, current)
				}
				link.linked[current] = true
			}
		}
	}
	return link, nil
}

// rulePass compiles each rule definition and attaches it to the items linked
// to it, draining the linkage. Whatever stays undrained is unresolved.
func (r *Resolver) rulePass(doc *define.Document, link *linkage) (*ruleSet, error) {
	pending := make(map[string][]string, len(link.items))
	for oid, items := range link.items {
		pending[oid] = items
	}

	rs := &ruleSet{predicates: make(map[string][]*predicate.Predicate)}
	defined := make(map[string]bool, len(doc.WhereClauses))
	for _, wc := range doc.WhereClauses {
		if defined[wc.OID] {
			return nil, clerrors.NewWithContext(clerrors.ErrCodeMalformedMetadata,
				"duplicate rule definition", map[string]any{"rule": wc.OID})
		}
		defined[wc.OID] = true

		p, err := r.compiler.Compile(wc.OID, wc.RangeChecks)
		if err != nil {
			return nil, err
		}

		items, ok := pending[wc.OID]
		if !ok {
			rs.unreferenced = append(rs.unreferenced, wc.OID)
			continue
		}
		for _, item := range items {
			rs.predicates[item] = append(rs.predicates[item], p)
		}
		delete(pending, wc.OID)
	}

	for _, oid := range link.order {
		if _, ok := pending[oid]; ok {
			rs.unresolved = append(rs.unresolved, oid)
		}
	}
	return rs, nil
}

// codelistPass collects the coded values of every non-excluded code list.
func (r *Resolver) codelistPass(doc *define.Document) (*codeSet, error) {
	cs := &codeSet{codes: make(map[string][]string), dataTypes: make(map[string]string), external: make(map[string]bool)}
	for _, cl := range doc.CodeLists {
		if r.excluded[cl.OID] {
			continue
		}
		if _, dup := cs.codes[cl.OID]; dup || cs.external[cl.OID] {
			return nil, clerrors.NewWithContext(clerrors.ErrCodeMalformedMetadata,
				"duplicate code list definition", map[string]any{"codeList": cl.OID})
		}
		if cl.External && len(cl.Items) == 0 {
			cs.external[cl.OID] = true
			continue
		}
		cs.codes[cl.OID] = append([]string{}, cl.Items...)
		cs.dataTypes[cl.OID] = cl.DataType
	}
	return cs, nil
}

// flatten emits the FlatRules of every occurrence whose code list resolved.
func (r *Resolver) flatten(occ []occurrence, link *linkage, rs *ruleSet, cs *codeSet) ([]FlatRule, []report.Warning, error) {
	var (
		rules    []FlatRule
		warnings []report.Warning
		ordinal  = make(map[string]int)
	)

	for _, o := range occ {
		domain, variable, err := KeyOf(o.itemOID)
		if err != nil {
			return nil, nil, err
		}

		if cs.external[o.codeListOID] {
			warnings = append(warnings, report.NewWarning(report.WarnExternalCodeList, o.itemOID,
				fmt.Sprintf("code list %s is externally coded and not checked", o.codeListOID)))
			continue
		}
		codes, ok := cs.codes[o.codeListOID]
		if !ok {
			warnings = append(warnings, report.NewWarning(report.WarnDanglingCodeList, o.itemOID,
				fmt.Sprintf("code list %s is not defined", o.codeListOID)))
			continue
		}

		// The variable's type wins; the code list's type covers items without one.
		dataType := o.dataType
		if dataType == "" {
			dataType = cs.dataTypes[o.codeListOID]
		}

		base := FlatRule{
			Key:         domain + "." + variable,
			Domain:      domain,
			Variable:    variable,
			ItemOID:     o.itemOID,
			CodeListOID: o.codeListOID,
			DataType:    dataType,
			Codes:       codes,
		}

		if !link.linked[o.itemOID] {
			ordinal[base.Key]++
			base.Rule = ordinal[base.Key]
			rules = append(rules, base)
			continue
		}

		// Linked items are checked only under rules that resolved.
		for _, p := range rs.predicates[o.itemOID] {
			rule := base
			ordinal[rule.Key]++
			rule.Rule = ordinal[rule.Key]
			rule.Predicate = p
			rule.RuleOID = p.OID
			rule.Condition = p.String()
			rules = append(rules, rule)
		}
	}

	if rules == nil {
		rules = []FlatRule{}
	}
	return rules, warnings, nil
}

// checkDefineVersion warns about documents older than MinDefineVersion or with
// an unreadable version. Documents without a version pass.
func checkDefineVersion(v string) (report.Warning, bool) {
	if v == "" {
		return report.Warning{}, true
	}
	parsed, err := version.ParseVersion(v)
	if err != nil {
		return report.NewWarning(report.WarnUnsupportedDefineVersion, v,
			fmt.Sprintf("unreadable Define-XML version: %v", err)), false
	}
	if !parsed.AtLeast(MinDefineVersion) {
		return report.NewWarning(report.WarnUnsupportedDefineVersion, v,
			fmt.Sprintf("Define-XML %s predates %s; results may be incomplete", parsed, MinDefineVersion)), false
	}
	return report.Warning{}, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
