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

// Package define reads the parts of a CDISC Define-XML document that describe
// coded variables: ItemDef, CodeList, ValueListDef and WhereClauseDef.
//
// Parsing is namespace-agnostic: elements and attributes are matched by local
// name, so ODM 1.3 documents with def 2.0 or 2.1 extensions read the same way.
// The parser streams tokens and never builds a DOM.
//
// Usage:
//
//	doc, err := define.Load(ctx, storage.NewService(), "./define.xml")
//	if err != nil {
//	    return err
//	}
//	for _, item := range doc.ItemDefs {
//	    fmt.Println(item.OID, item.CodeListRefs)
//	}
//
// Structural problems (XML syntax errors, missing OID attributes, refs outside
// their parent element) are returned as MALFORMED_METADATA errors.
package define
