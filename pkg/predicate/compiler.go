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

package predicate

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/codelist-check/pkg/dataset"
	"github.com/NVIDIA/codelist-check/pkg/defaults"
	"github.com/NVIDIA/codelist-check/pkg/define"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
)

// Clause is one compiled comparison of a predicate.
type Clause struct {
	Field      string     `json:"field" yaml:"field"`
	Comparator Comparator `json:"comparator" yaml:"comparator"`
	Values     []string   `json:"values" yaml:"values"`

	// Set is true when the check value is a value set rather than a scalar.
	Set bool `json:"set" yaml:"set"`

	test Test
}

// Eval applies the clause to the row's field value. Absent fields read as null.
func (c Clause) Eval(row dataset.Row) bool {
	return c.test(row[c.Field])
}

// String renders the clause as canonical condition text.
func (c Clause) String() string {
	if !c.Set {
		return fmt.Sprintf("%s %s %q", c.Field, c.Comparator, c.Values[0])
	}
	quoted := make([]string, len(c.Values))
	for i, v := range c.Values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%s %s (%s)", c.Field, c.Comparator, strings.Join(quoted, ", "))
}

// Predicate is the compiled conjunction of an applicability rule.
type Predicate struct {
	OID     string   `json:"oid" yaml:"oid"`
	Clauses []Clause `json:"clauses" yaml:"clauses"`
}

// Eval reports whether every clause holds for row.
func (p *Predicate) Eval(row dataset.Row) bool {
	for _, c := range p.Clauses {
		if !c.Eval(row) {
			return false
		}
	}
	return true
}

// Fields returns the distinct fields the predicate reads, in clause order.
func (p *Predicate) Fields() []string {
	seen := make(map[string]bool, len(p.Clauses))
	fields := make([]string, 0, len(p.Clauses))
	for _, c := range p.Clauses {
		if !seen[c.Field] {
			seen[c.Field] = true
			fields = append(fields, c.Field)
		}
	}
	return fields
}

// String renders the predicate as clauses joined by AND.
func (p *Predicate) String() string {
	parts := make([]string, len(p.Clauses))
	for i, c := range p.Clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// Compiler turns RangeChecks into predicates.
type Compiler struct {
	// Delimiter splits a single check value text into a value set.
	Delimiter string
}

// NewCompiler returns a compiler splitting check values on delimiter.
// An empty delimiter uses the default ",".
func NewCompiler(delimiter string) *Compiler {
	if delimiter == "" {
		delimiter = defaults.CheckValueDelimiter
	}
	return &Compiler{Delimiter: delimiter}
}

// Compile builds the predicate of rule oid from its ordered range checks.
func (c *Compiler) Compile(oid string, checks []define.RangeCheck) (*Predicate, error) {
	if len(checks) == 0 {
		return nil, clerrors.NewWithContext(clerrors.ErrCodeMalformedMetadata,
			"rule has no range checks", map[string]any{"rule": oid})
	}

	p := &Predicate{OID: oid, Clauses: make([]Clause, 0, len(checks))}
	for i, rc := range checks {
		clause, err := c.clause(rc)
		if err != nil {
			return nil, clerrors.WrapWithContext(clerrors.ErrCodeMalformedMetadata,
				"invalid range check", err, map[string]any{"rule": oid, "index": i})
		}
		p.Clauses = append(p.Clauses, clause)
	}
	return p, nil
}

func (c *Compiler) clause(rc define.RangeCheck) (Clause, error) {
	field, err := FieldName(rc.ItemOID)
	if err != nil {
		return Clause{}, err
	}

	cmp, err := ParseComparator(rc.Comparator)
	if err != nil {
		return Clause{}, err
	}

	values, set, err := c.checkValues(rc.CheckValues)
	if err != nil {
		return Clause{}, err
	}

	clause := Clause{Field: field, Comparator: cmp, Values: values, Set: set}
	if set {
		clause.test = cmp.Set(values)
	} else {
		clause.test = cmp.Scalar(values[0])
	}
	return clause, nil
}

// checkValues decides the value shape from the text: delimited text or
// several CheckValue elements form a set, a single value stays scalar.
func (c *Compiler) checkValues(texts []string) ([]string, bool, error) {
	switch {
	case len(texts) == 0:
		return nil, false, clerrors.New(clerrors.ErrCodeMalformedMetadata, "range check has no check value")
	case len(texts) > 1:
		values := make([]string, len(texts))
		for i, t := range texts {
			values[i] = strings.TrimSpace(t)
		}
		return values, true, nil
	case strings.Contains(texts[0], c.Delimiter):
		var values []string
		for _, part := range strings.Split(texts[0], c.Delimiter) {
			if v := strings.TrimSpace(part); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return nil, false, clerrors.New(clerrors.ErrCodeMalformedMetadata, "check value list is empty")
		}
		return values, true, nil
	default:
		return []string{strings.TrimSpace(texts[0])}, false, nil
	}
}

// FieldName derives the dataset column a rule tests from its ItemOID:
// the components after the prefix and domain (IT.AE.AEREL reads AEREL).
func FieldName(itemOID string) (string, error) {
	parts := strings.Split(strings.TrimSpace(itemOID), ".")
	if len(parts) < 3 || parts[2] == "" {
		return "", clerrors.NewWithContext(clerrors.ErrCodeMalformedMetadata,
			"item reference needs at least three components", map[string]any{"itemOID": itemOID})
	}
	return strings.Join(parts[2:], "."), nil
}
