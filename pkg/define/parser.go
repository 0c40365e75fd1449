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

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/NVIDIA/codelist-check/pkg/defaults"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/storage"
	"github.com/viant/afs"
)

// Element local names read by the parser.
const (
	elemMetaDataVersion = "MetaDataVersion"
	elemItemDef         = "ItemDef"
	elemCodeListRef     = "CodeListRef"
	elemCodeList        = "CodeList"
	elemCodeListItem    = "CodeListItem"
	elemEnumeratedItem  = "EnumeratedItem"
	elemExternalList    = "ExternalCodeList"
	elemValueListDef    = "ValueListDef"
	elemItemRef         = "ItemRef"
	elemWhereClauseRef  = "WhereClauseRef"
	elemWhereClauseDef  = "WhereClauseDef"
	elemRangeCheck      = "RangeCheck"
	elemCheckValue      = "CheckValue"
)

// parser tracks the open definition while tokens stream past.
// Indexes point into doc slices; -1 means no open element.
type parser struct {
	doc        *Document
	item       int
	codeList   int
	valueList  int
	where      int
	rangeCheck *RangeCheck
	checkValue *strings.Builder
}

// Load reads and parses the define.xml at location through fs.
func Load(ctx context.Context, fs afs.Service, location string) (*Document, error) {
	URL := storage.URL(location)
	data, err := storage.ReadAll(ctx, fs, URL, defaults.MaxDefineSize)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	slog.Debug("define loaded",
		"url", URL,
		"version", doc.DefineVersion,
		"itemDefs", len(doc.ItemDefs),
		"codeLists", len(doc.CodeLists),
		"valueLists", len(doc.ValueLists),
		"whereClauses", len(doc.WhereClauses))

	return doc, nil
}

// Parse streams a Define-XML document from r.
func Parse(r io.Reader) (*Document, error) {
	p := &parser{doc: &Document{}, item: -1, codeList: -1, valueList: -1, where: -1}
	decoder := xml.NewDecoder(r)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, clerrors.Wrap(clerrors.ErrCodeMalformedMetadata, "invalid define.xml", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.start(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			p.end(t)
		case xml.CharData:
			if p.checkValue != nil {
				p.checkValue.Write(t)
			}
		}
	}

	return p.doc, nil
}

func (p *parser) start(t xml.StartElement) error {
	switch t.Name.Local {
	case elemMetaDataVersion:
		p.doc.DefineVersion = attr(t, "DefineVersion")

	case elemItemDef:
		oid, err := requireAttr(t, "OID")
		if err != nil {
			return err
		}
		p.doc.ItemDefs = append(p.doc.ItemDefs, ItemDef{
			OID:      oid,
			Name:     attr(t, "Name"),
			DataType: attr(t, "DataType"),
		})
		p.item = len(p.doc.ItemDefs) - 1

	case elemCodeListRef:
		if p.item < 0 {
			return nil
		}
		oid, err := requireAttr(t, "CodeListOID")
		if err != nil {
			return err
		}
		p.doc.ItemDefs[p.item].CodeListRefs = append(p.doc.ItemDefs[p.item].CodeListRefs, oid)

	case elemCodeList:
		oid, err := requireAttr(t, "OID")
		if err != nil {
			return err
		}
		p.doc.CodeLists = append(p.doc.CodeLists, CodeList{
			OID:      oid,
			Name:     attr(t, "Name"),
			DataType: attr(t, "DataType"),
			Items:    []string{},
		})
		p.codeList = len(p.doc.CodeLists) - 1

	case elemCodeListItem, elemEnumeratedItem:
		if p.codeList < 0 {
			return malformed(t, "outside CodeList")
		}
		value, err := requireAttr(t, "CodedValue")
		if err != nil {
			return err
		}
		p.doc.CodeLists[p.codeList].Items = append(p.doc.CodeLists[p.codeList].Items, value)

	case elemExternalList:
		if p.codeList >= 0 {
			p.doc.CodeLists[p.codeList].External = true
		}

	case elemValueListDef:
		oid, err := requireAttr(t, "OID")
		if err != nil {
			return err
		}
		p.doc.ValueLists = append(p.doc.ValueLists, ValueListDef{OID: oid, Refs: []Ref{}})
		p.valueList = len(p.doc.ValueLists) - 1

	case elemItemRef:
		// ItemRefs also appear under ItemGroupDef; only value-list refs link rules.
		if p.valueList < 0 {
			return nil
		}
		oid, err := requireAttr(t, "ItemOID")
		if err != nil {
			return err
		}
		p.addRef(RefItem, oid)

	case elemWhereClauseRef:
		if p.valueList < 0 {
			return malformed(t, "outside ValueListDef")
		}
		oid, err := requireAttr(t, "WhereClauseOID")
		if err != nil {
			return err
		}
		p.addRef(RefWhereClause, oid)

	case elemWhereClauseDef:
		oid, err := requireAttr(t, "OID")
		if err != nil {
			return err
		}
		p.doc.WhereClauses = append(p.doc.WhereClauses, WhereClauseDef{OID: oid, RangeChecks: []RangeCheck{}})
		p.where = len(p.doc.WhereClauses) - 1

	case elemRangeCheck:
		if p.where < 0 {
			// RangeCheck is also legal under ItemDef in ODM; it carries no rule there.
			return nil
		}
		p.rangeCheck = &RangeCheck{
			ItemOID:     attr(t, "ItemOID"),
			Comparator:  attr(t, "Comparator"),
			CheckValues: []string{},
		}

	case elemCheckValue:
		if p.rangeCheck != nil {
			p.checkValue = &strings.Builder{}
		}
	}
	return nil
}

func (p *parser) end(t xml.EndElement) {
	switch t.Name.Local {
	case elemItemDef:
		p.item = -1
	case elemCodeList:
		p.codeList = -1
	case elemValueListDef:
		p.valueList = -1
	case elemWhereClauseDef:
		p.where = -1
	case elemRangeCheck:
		if p.rangeCheck != nil && p.where >= 0 {
			wc := &p.doc.WhereClauses[p.where]
			wc.RangeChecks = append(wc.RangeChecks, *p.rangeCheck)
		}
		p.rangeCheck = nil
	case elemCheckValue:
		if p.checkValue != nil && p.rangeCheck != nil {
			p.rangeCheck.CheckValues = append(p.rangeCheck.CheckValues, p.checkValue.String())
		}
		p.checkValue = nil
	}
}

func (p *parser) addRef(kind RefKind, oid string) {
	vl := &p.doc.ValueLists[p.valueList]
	vl.Refs = append(vl.Refs, Ref{Kind: kind, OID: oid})
}

// attr returns the value of the attribute with the given local name in any namespace.
func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func requireAttr(t xml.StartElement, local string) (string, error) {
	v := strings.TrimSpace(attr(t, local))
	if v == "" {
		return "", malformed(t, "missing "+local+" attribute")
	}
	return v, nil
}

func malformed(t xml.StartElement, msg string) error {
	return clerrors.New(clerrors.ErrCodeMalformedMetadata, t.Name.Local+": "+msg)
}
