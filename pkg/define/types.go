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

package define

// Document is the subset of a Define-XML MetaDataVersion the checker needs.
// Slices keep document order.
type Document struct {
	DefineVersion string           `json:"defineVersion,omitempty" yaml:"defineVersion,omitempty"`
	ItemDefs      []ItemDef        `json:"itemDefs" yaml:"itemDefs"`
	CodeLists     []CodeList       `json:"codeLists" yaml:"codeLists"`
	ValueLists    []ValueListDef   `json:"valueLists" yaml:"valueLists"`
	WhereClauses  []WhereClauseDef `json:"whereClauses" yaml:"whereClauses"`
}

// ItemDef is a variable definition (ItemDef element).
type ItemDef struct {
	OID          string   `json:"oid" yaml:"oid"`
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	DataType     string   `json:"dataType,omitempty" yaml:"dataType,omitempty"`
	CodeListRefs []string `json:"codeListRefs,omitempty" yaml:"codeListRefs,omitempty"`
}

// CodeList is an enumerated value list (CodeList element).
type CodeList struct {
	OID      string   `json:"oid" yaml:"oid"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	DataType string   `json:"dataType,omitempty" yaml:"dataType,omitempty"`
	Items    []string `json:"items" yaml:"items"`

	// External is set when the list points at an external dictionary
	// (ExternalCodeList) instead of enumerating its codes.
	External bool `json:"external,omitempty" yaml:"external,omitempty"`
}

// RefKind tells ItemRef and WhereClauseRef entries of a value list apart.
type RefKind string

const (
	RefItem        RefKind = "item"
	RefWhereClause RefKind = "whereClause"
)

// Ref is one ItemRef or WhereClauseRef inside a ValueListDef.
type Ref struct {
	Kind RefKind `json:"kind" yaml:"kind"`
	OID  string  `json:"oid" yaml:"oid"`
}

// ValueListDef carries the ordered refs of a value-level metadata list.
type ValueListDef struct {
	OID  string `json:"oid" yaml:"oid"`
	Refs []Ref  `json:"refs" yaml:"refs"`
}

// WhereClauseDef is a named conjunction of range checks.
type WhereClauseDef struct {
	OID         string       `json:"oid" yaml:"oid"`
	RangeChecks []RangeCheck `json:"rangeChecks" yaml:"rangeChecks"`
}

// RangeCheck is a single comparison inside a WhereClauseDef.
type RangeCheck struct {
	ItemOID     string   `json:"itemOid" yaml:"itemOid"`
	Comparator  string   `json:"comparator" yaml:"comparator"`
	CheckValues []string `json:"checkValues" yaml:"checkValues"`
}
