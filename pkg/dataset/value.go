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

package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the storage class of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
)

// Value is a single dataset cell. Numbers are always float64: integer columns
// widen on read, the same way the source statistical tooling loads them.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Null returns the missing value.
func Null() Value { return Value{} }

// String returns a character value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{kind: KindNumber, num: f}
}

// Kind returns the storage class.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsBlank reports whether the value is a character value of only whitespace.
func (v Value) IsBlank() bool {
	return v.kind == KindString && strings.TrimSpace(v.str) == ""
}

// Float returns the numeric value, if any.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Text renders the value as it is compared against code lists. Numbers render
// in float form, so 1 becomes "1.0".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FloatText(v.num)
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindNull {
		return "<null>"
	}
	return v.Text()
}

// Equal reports whether the value matches a check value from metadata.
// Null never matches. A numeric value also matches a check value that parses
// to the same number, so conditions such as VISITNUM EQ 1 select rows.
func (v Value) Equal(expected string) bool {
	switch v.kind {
	case KindString:
		return v.str == expected
	case KindNumber:
		if FloatText(v.num) == expected {
			return true
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(expected), 64)
		return err == nil && f == v.num
	default:
		return false
	}
}

// Widen returns the numeric form of a character value that holds a number,
// the way a numeric variable read from text is typed. Blank text widens to
// null. Every other value is returned unchanged.
func (v Value) Widen() Value {
	if v.kind != KindString {
		return v
	}
	s := strings.TrimSpace(v.str)
	if s == "" {
		return Null()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return Number(f)
}

// FloatText renders f with at least one fractional digit.
func FloatText(f float64) string {
	if math.IsInf(f, 0) {
		if f > 0 {
			return "inf"
		}
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// NumericText renders f without a forced fractional digit, so 1 becomes "1".
func NumericText(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
