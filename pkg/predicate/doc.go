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

// Package predicate compiles Define-XML applicability rules (WhereClauseDef
// range checks) into predicates evaluated against dataset rows.
//
// Each RangeCheck becomes a Clause: the tested field is taken from the
// ItemOID (IT.AE.AEREL tests AEREL), the comparator is one of EQ, NE, IN or
// NOTIN, and the check value is a scalar or a set. The shape follows the
// text, not the comparator: "SYSBP, DIABP" is a set even under EQ, and a
// lone "RELATED" is a scalar even under IN. Clauses combine with AND.
//
// Compiled predicates are closures; nothing is interpreted while rows are
// evaluated.
//
//	p, err := predicate.NewCompiler(",").Compile(wc.OID, wc.RangeChecks)
//	if err != nil {
//	    return err // MALFORMED_METADATA
//	}
//	if p.Eval(row) {
//	    // row is in the rule's subset
//	}
//
// A null field value equals nothing, so NE and NOTIN accept it.
package predicate
