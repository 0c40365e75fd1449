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

// Package resolver builds the rule table of a define.xml document.
//
// Resolution runs four passes over the parsed document, then flattens:
//
//  1. variablePass: (item, code list) occurrences, skipping the excluded
//     dictionary code lists (CL.DRUGDICT and CL.MEDDRA by default).
//  2. linkagePass: each WhereClauseRef paired with the most recent ItemRef of
//     its value list, giving rule OID to item OIDs.
//  3. rulePass: every WhereClauseDef compiled to a predicate and attached to
//     its linked items. References left over are unresolved; definitions
//     nobody links are unreferenced.
//  4. codelistPass: the coded values of each code list.
//
// Flattening emits one FlatRule per resolved predicate of a linked item, or a
// single unconditional FlatRule for an unlinked item. A linked item whose
// rules are all unresolved is not checked at all; the unresolved rule OIDs
// are reported instead.
//
// Malformed metadata (unsupported comparators, short OIDs, duplicate
// definitions) aborts resolution. Dangling or external code lists, unresolved
// references and old Define-XML versions become warnings on the table.
//
//	table, err := resolver.New(resolver.WithDelimiter(",")).Resolve(doc)
//	if err != nil {
//	    return err
//	}
//	for _, rule := range table.Lookup("DM", "SEX") {
//	    fmt.Println(rule.Key, rule.Condition, rule.Codes)
//	}
package resolver
