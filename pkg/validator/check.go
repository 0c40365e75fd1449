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
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/NVIDIA/codelist-check/pkg/dataset"
	"github.com/NVIDIA/codelist-check/pkg/report"
	"github.com/NVIDIA/codelist-check/pkg/resolver"
)

// CheckOptions tune how values are compared with codes.
type CheckOptions struct {
	// NumericCodes compares numeric values with codes by number, so 1 matches
	// code "1". Off by default: numbers compare in float text form ("1.0").
	NumericCodes bool
}

// CheckResult is the outcome of checking one dataset.
type CheckResult struct {
	Domain            string           `json:"domain" yaml:"domain"`
	Rules             int              `json:"rules" yaml:"rules"`
	MissingInData     []report.Finding `json:"missingInData" yaml:"missingInData"`
	MissingInMetadata []report.Finding `json:"missingInMetadata" yaml:"missingInMetadata"`
	Warnings          []report.Warning `json:"warnings" yaml:"warnings"`
}

// CheckDataset checks ds against the rules of its domain. It has no side
// effects and returns the same result for the same inputs.
func CheckDataset(ds *dataset.Dataset, rules []resolver.FlatRule, opts CheckOptions) CheckResult {
	res, _ := checkDataset(context.Background(), ds, rules, opts)
	return res
}

func checkDataset(ctx context.Context, ds *dataset.Dataset, rules []resolver.FlatRule, opts CheckOptions) (CheckResult, error) {
	res := CheckResult{Domain: ds.Domain}

	byVariable := make(map[string][]resolver.FlatRule)
	for _, r := range rules {
		byVariable[r.Variable] = append(byVariable[r.Variable], r)
	}
	variables := make([]string, 0, len(byVariable))
	for v := range byVariable {
		variables = append(variables, v)
	}
	sort.Strings(variables)

	for _, variable := range variables {
		varRules := byVariable[variable]
		if !ds.HasColumn(variable) {
			res.Warnings = append(res.Warnings, report.NewWarning(report.WarnMissingVariable,
				varRules[0].Key, fmt.Sprintf("variable %s is not a column of the %s dataset", variable, ds.Domain)))
			continue
		}

		for _, rule := range varRules {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if missing := missingFields(ds, rule); len(missing) > 0 {
				res.Warnings = append(res.Warnings, report.NewWarning(report.WarnMissingConditionVariable,
					rule.Key, fmt.Sprintf("rule %d condition reads %s, not columns of the %s dataset",
						rule.Rule, strings.Join(missing, ", "), ds.Domain)))
				continue
			}

			inData, inMetadata := compare(ds, rule, opts)
			res.Rules++
			if len(inData) > 0 {
				res.MissingInData = append(res.MissingInData, finding(rule, inData))
			}
			if len(inMetadata) > 0 {
				res.MissingInMetadata = append(res.MissingInMetadata, finding(rule, inMetadata))
			}
		}
	}
	return res, nil
}

func missingFields(ds *dataset.Dataset, rule resolver.FlatRule) []string {
	if rule.Predicate == nil {
		return nil
	}
	var missing []string
	for _, f := range rule.Predicate.Fields() {
		if !ds.HasColumn(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// compare returns the declared codes absent from the rule's rows (declared
// order) and the non-blank observed values the codes do not declare (sorted).
// Text cells of numeric variables are widened first; text variables keep
// their cells as written.
func compare(ds *dataset.Dataset, rule resolver.FlatRule, opts CheckOptions) (missingInData, missingInMetadata []string) {
	observed := make(map[string]bool)
	blank := make(map[string]bool)
	for _, row := range ds.Rows {
		if rule.Predicate != nil && !rule.Predicate.Eval(row) {
			continue
		}
		v := row[rule.Variable]
		if rule.Numeric() {
			v = v.Widen()
		}
		if v.IsNull() {
			continue
		}
		key := valueKey(v, opts)
		observed[key] = true
		if v.IsBlank() {
			blank[key] = true
		}
	}

	declared := make(map[string]bool, len(rule.Codes))
	for _, code := range rule.Codes {
		key := codeKey(code, opts)
		if declared[key] {
			continue
		}
		declared[key] = true
		if !observed[key] {
			missingInData = append(missingInData, code)
		}
	}

	for key := range observed {
		if !declared[key] && !blank[key] {
			missingInMetadata = append(missingInMetadata, key)
		}
	}
	sort.Strings(missingInMetadata)
	return missingInData, missingInMetadata
}

// valueKey and codeKey give the comparison form of a value and a code. With
// NumericCodes both sides canonicalize numbers, so 1, "1", "01" and "1.0" agree.
func valueKey(v dataset.Value, opts CheckOptions) string {
	if f, ok := v.Float(); ok && opts.NumericCodes {
		return dataset.NumericText(f)
	}
	return codeKey(v.Text(), opts)
}

func codeKey(code string, opts CheckOptions) string {
	if opts.NumericCodes {
		if f, err := strconv.ParseFloat(strings.TrimSpace(code), 64); err == nil {
			return dataset.NumericText(f)
		}
	}
	return code
}

func finding(rule resolver.FlatRule, values []string) report.Finding {
	return report.Finding{
		Key:       rule.Key,
		Domain:    rule.Domain,
		Variable:  rule.Variable,
		Condition: rule.Condition,
		Rule:      rule.Rule,
		Values:    values,
	}
}
