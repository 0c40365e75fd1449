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
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
)

// Comparator is a RangeCheck comparator supported in applicability rules.
type Comparator string

const (
	ComparatorEQ    Comparator = "EQ"
	ComparatorNE    Comparator = "NE"
	ComparatorIN    Comparator = "IN"
	ComparatorNOTIN Comparator = "NOTIN"
)

// Comparators returns the supported comparators.
func Comparators() []Comparator {
	return []Comparator{ComparatorEQ, ComparatorNE, ComparatorIN, ComparatorNOTIN}
}

// ParseComparator maps a metadata comparator token to a Comparator.
// Ordering comparators (LT, GE, ...) are not supported and fail like any
// unknown token.
func ParseComparator(s string) (Comparator, error) {
	c := Comparator(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case ComparatorEQ, ComparatorNE, ComparatorIN, ComparatorNOTIN:
		return c, nil
	default:
		return "", clerrors.NewWithContext(clerrors.ErrCodeMalformedMetadata,
			fmt.Sprintf("unsupported comparator %q", s),
			map[string]any{"supported": Comparators()})
	}
}

// Negated reports whether the comparator tests for absence (NE, NOTIN).
func (c Comparator) Negated() bool {
	return c == ComparatorNE || c == ComparatorNOTIN
}

// Test is a compiled comparison applied to one field value.
type Test func(v dataset.Value) bool

// Scalar returns the equality or inequality test against a single check value.
func (c Comparator) Scalar(expected string) Test {
	if c.Negated() {
		return func(v dataset.Value) bool { return !v.Equal(expected) }
	}
	return func(v dataset.Value) bool { return v.Equal(expected) }
}

// Set returns the membership or non-membership test against a value set.
func (c Comparator) Set(expected []string) Test {
	values := append([]string(nil), expected...)
	member := func(v dataset.Value) bool {
		for _, e := range values {
			if v.Equal(e) {
				return true
			}
		}
		return false
	}
	if c.Negated() {
		return func(v dataset.Value) bool { return !member(v) }
	}
	return member
}
