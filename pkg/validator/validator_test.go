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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NVIDIA/codelist-check/pkg/dataset"
	"github.com/NVIDIA/codelist-check/pkg/define"
	"github.com/NVIDIA/codelist-check/pkg/report"
	"github.com/NVIDIA/codelist-check/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// memSource serves in-memory datasets; failing domains return an error on Load.
type memSource struct {
	sets    map[string]*dataset.Dataset
	failing map[string]bool
}

func (m *memSource) Domains(context.Context) ([]string, error) {
	var out []string
	for d := range m.sets {
		out = append(out, d)
	}
	for d := range m.failing {
		out = append(out, d)
	}
	return out, nil
}

func (m *memSource) Load(_ context.Context, domain string) (*dataset.Dataset, error) {
	if m.failing[domain] {
		return nil, errors.New("corrupt file")
	}
	return m.sets[domain], nil
}

func (m *memSource) Location() string { return "mem" }
func (m *memSource) Close() error     { return nil }

func strRows(columns []string, rows ...[]string) *dataset.Dataset {
	ds := &dataset.Dataset{Columns: columns}
	for _, r := range rows {
		row := dataset.Row{}
		for i, c := range columns {
			row[c] = dataset.String(r[i])
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

func resolve(t *testing.T, doc *define.Document) *resolver.RuleTable {
	t.Helper()
	table, err := resolver.New().Resolve(doc)
	require.NoError(t, err)
	return table
}

func sexDocument() *define.Document {
	return &define.Document{
		ItemDefs:  []define.ItemDef{{OID: "IT.DM.SEX", CodeListRefs: []string{"CL.SEX"}}},
		CodeLists: []define.CodeList{{OID: "CL.SEX", Items: []string{"M", "F", "U"}}},
	}
}

func sexTable(t *testing.T) *resolver.RuleTable {
	return resolve(t, sexDocument())
}

// combined concatenates the definitions of docs into one document.
func combined(docs ...*define.Document) *define.Document {
	out := &define.Document{}
	for _, d := range docs {
		out.ItemDefs = append(out.ItemDefs, d.ItemDefs...)
		out.CodeLists = append(out.CodeLists, d.CodeLists...)
		out.ValueLists = append(out.ValueLists, d.ValueLists...)
		out.WhereClauses = append(out.WhereClauses, d.WhereClauses...)
	}
	return out
}

func aesevTable(t *testing.T) *resolver.RuleTable {
	return resolve(t, aesevDocument())
}

func aesevDocument() *define.Document {
	return &define.Document{
		ItemDefs:  []define.ItemDef{{OID: "IT.AE.AESEV.REL", CodeListRefs: []string{"CL.AESEV"}}},
		CodeLists: []define.CodeList{{OID: "CL.AESEV", Items: []string{"MILD", "MODERATE", "SEVERE"}}},
		ValueLists: []define.ValueListDef{{OID: "VL.AE.AESEV", Refs: []define.Ref{
			{Kind: define.RefItem, OID: "IT.AE.AESEV.REL"},
			{Kind: define.RefWhereClause, OID: "WC.AE.REL"},
		}}},
		WhereClauses: []define.WhereClauseDef{{OID: "WC.AE.REL", RangeChecks: []define.RangeCheck{
			{ItemOID: "IT.AE.AEREL", Comparator: "EQ", CheckValues: []string{"RELATED"}},
		}}},
	}
}

func TestCheckDataset_SexScenario(t *testing.T) {
	ds := strRows([]string{"USUBJID", "SEX"}, []string{"1", "M"}, []string{"2", "F"}, []string{"3", "M"})
	ds.Domain = "DM"

	res := CheckDataset(ds, sexTable(t).ForDomain("DM"), CheckOptions{})

	require.Len(t, res.MissingInData, 1)
	assert.Equal(t, "DM.SEX", res.MissingInData[0].Key)
	assert.Equal(t, []string{"U"}, res.MissingInData[0].Values)
	assert.Empty(t, res.MissingInData[0].Condition)
	assert.Empty(t, res.MissingInMetadata)
	assert.Equal(t, 1, res.Rules)
}

func TestCheckDataset_ConditionalScenario(t *testing.T) {
	ds := strRows([]string{"AEREL", "AESEV"},
		[]string{"RELATED", "MILD"},
		[]string{"RELATED", "MILD"},
		[]string{"UNRELATED", "FATAL"},
	)
	ds.Domain = "AE"

	res := CheckDataset(ds, aesevTable(t).ForDomain("AE"), CheckOptions{})

	require.Len(t, res.MissingInData, 1)
	assert.Equal(t, []string{"MODERATE", "SEVERE"}, res.MissingInData[0].Values)
	assert.Equal(t, `AEREL EQ "RELATED"`, res.MissingInData[0].Condition)
	assert.Empty(t, res.MissingInMetadata, "FATAL is outside the conditioned subset")
}

func TestCheckDataset_SymmetricDifference(t *testing.T) {
	ds := strRows([]string{"SEX"}, []string{"M"}, []string{"X"}, []string{"A"}, []string{"X"})
	ds.Domain = "DM"

	res := CheckDataset(ds, sexTable(t).ForDomain("DM"), CheckOptions{})

	require.Len(t, res.MissingInData, 1)
	assert.Equal(t, []string{"F", "U"}, res.MissingInData[0].Values, "declared order")
	require.Len(t, res.MissingInMetadata, 1)
	assert.Equal(t, []string{"A", "X"}, res.MissingInMetadata[0].Values, "sorted, distinct")
}

func TestCheckDataset_BlankAndNull(t *testing.T) {
	ds := &dataset.Dataset{Domain: "DM", Columns: []string{"SEX"}, Rows: []dataset.Row{
		{"SEX": dataset.String("M")},
		{"SEX": dataset.String("F")},
		{"SEX": dataset.String("U")},
		{"SEX": dataset.String("")},
		{"SEX": dataset.String("  ")},
		{"SEX": dataset.Null()},
		{},
	}}

	res := CheckDataset(ds, sexTable(t).ForDomain("DM"), CheckOptions{})
	assert.Empty(t, res.MissingInData)
	assert.Empty(t, res.MissingInMetadata, "blank values never surface as missing in metadata")
}

func TestCheckDataset_BlankCodeStillChecked(t *testing.T) {
	table := resolve(t, &define.Document{
		ItemDefs:  []define.ItemDef{{OID: "IT.DM.SEX", CodeListRefs: []string{"CL.SEX"}}},
		CodeLists: []define.CodeList{{OID: "CL.SEX", Items: []string{"M", ""}}},
	})
	ds := strRows([]string{"SEX"}, []string{"M"})
	ds.Domain = "DM"

	res := CheckDataset(ds, table.ForDomain("DM"), CheckOptions{})
	require.Len(t, res.MissingInData, 1)
	assert.Equal(t, []string{""}, res.MissingInData[0].Values)
}

func TestCheckDataset_NumericRendering(t *testing.T) {
	table := resolve(t, &define.Document{
		ItemDefs:  []define.ItemDef{{OID: "IT.DM.ARMCD", CodeListRefs: []string{"CL.ARMCD"}}},
		CodeLists: []define.CodeList{{OID: "CL.ARMCD", Items: []string{"1", "2"}}},
	})
	ds := &dataset.Dataset{Domain: "DM", Columns: []string{"ARMCD"}, Rows: []dataset.Row{
		{"ARMCD": dataset.Number(1)},
		{"ARMCD": dataset.Number(2)},
	}}

	t.Run("float text by default", func(t *testing.T) {
		res := CheckDataset(ds, table.ForDomain("DM"), CheckOptions{})
		require.Len(t, res.MissingInData, 1)
		assert.Equal(t, []string{"1", "2"}, res.MissingInData[0].Values)
		require.Len(t, res.MissingInMetadata, 1)
		assert.Equal(t, []string{"1.0", "2.0"}, res.MissingInMetadata[0].Values)
	})

	t.Run("numeric codes", func(t *testing.T) {
		res := CheckDataset(ds, table.ForDomain("DM"), CheckOptions{NumericCodes: true})
		assert.Empty(t, res.MissingInData)
		assert.Empty(t, res.MissingInMetadata)
	})
}

func TestCheckDataset_CSVTyping(t *testing.T) {
	table := resolve(t, &define.Document{
		ItemDefs: []define.ItemDef{
			{OID: "IT.AE.AETOXGR", DataType: "text", CodeListRefs: []string{"CL.TOXGR"}},
			{OID: "IT.AE.AEDOSE", DataType: "integer", CodeListRefs: []string{"CL.DOSE"}},
			{OID: "IT.AE.AEPHASE", CodeListRefs: []string{"CL.PHASE"}},
		},
		CodeLists: []define.CodeList{
			{OID: "CL.TOXGR", DataType: "text", Items: []string{"1", "2", "3"}},
			{OID: "CL.DOSE", DataType: "integer", Items: []string{"10", "20"}},
			{OID: "CL.PHASE", DataType: "float", Items: []string{"1", "2"}},
		},
	})

	ds, err := dataset.ReadCSV(strings.NewReader(
		"AETOXGR,AEDOSE,AEPHASE\n1,10,1\n2,20,2\n3,,\n"), "AE")
	require.NoError(t, err)

	t.Run("text codes compare as written", func(t *testing.T) {
		res := CheckDataset(ds, table.Lookup("AE", "AETOXGR"), CheckOptions{})
		assert.Empty(t, res.MissingInData)
		assert.Empty(t, res.MissingInMetadata)
	})

	t.Run("integer variable widens to float text", func(t *testing.T) {
		res := CheckDataset(ds, table.Lookup("AE", "AEDOSE"), CheckOptions{})
		require.Len(t, res.MissingInMetadata, 1)
		assert.Equal(t, []string{"10.0", "20.0"}, res.MissingInMetadata[0].Values)

		res = CheckDataset(ds, table.Lookup("AE", "AEDOSE"), CheckOptions{NumericCodes: true})
		assert.Empty(t, res.MissingInData)
		assert.Empty(t, res.MissingInMetadata)
	})

	t.Run("code list type covers untyped variable", func(t *testing.T) {
		rules := table.Lookup("AE", "AEPHASE")
		require.Len(t, rules, 1)
		assert.True(t, rules[0].Numeric())

		res := CheckDataset(ds, rules, CheckOptions{})
		require.Len(t, res.MissingInMetadata, 1)
		assert.Equal(t, []string{"1.0", "2.0"}, res.MissingInMetadata[0].Values)
	})
}

func TestCheckDataset_MissingColumns(t *testing.T) {
	t.Run("variable", func(t *testing.T) {
		ds := strRows([]string{"USUBJID"}, []string{"1"})
		ds.Domain = "DM"
		res := CheckDataset(ds, sexTable(t).ForDomain("DM"), CheckOptions{})
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, report.WarnMissingVariable, res.Warnings[0].Code)
		assert.Equal(t, 0, res.Rules)
	})

	t.Run("condition field", func(t *testing.T) {
		ds := strRows([]string{"AESEV"}, []string{"MILD"})
		ds.Domain = "AE"
		res := CheckDataset(ds, aesevTable(t).ForDomain("AE"), CheckOptions{})
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, report.WarnMissingConditionVariable, res.Warnings[0].Code)
		assert.Contains(t, res.Warnings[0].Message, "AEREL")
		assert.Empty(t, res.MissingInData)
	})
}

func TestValidate(t *testing.T) {
	f, err := os.Open("../define/testdata/define.xml")
	require.NoError(t, err)
	defer f.Close()
	doc, err := define.Parse(f)
	require.NoError(t, err)
	table := resolve(t, doc)
	table.Define = "define.xml"

	dm := &dataset.Dataset{Domain: "DM", Columns: []string{"SEX", "ARMCD"}, Rows: []dataset.Row{
		{"SEX": dataset.String("M"), "ARMCD": dataset.Number(1)},
		{"SEX": dataset.String("F"), "ARMCD": dataset.Number(2)},
	}}
	ae := strRows([]string{"AEREL", "AESEV"},
		[]string{"RELATED", "MILD"}, []string{"RELATED", "MILD"}, []string{"UNRELATED", "FATAL"})
	ae.Domain = "AE"

	src := &memSource{
		sets:    map[string]*dataset.Dataset{"DM": dm, "AE": ae},
		failing: map[string]bool{"VS": true},
	}

	rep, err := New(WithVersion("test"), WithConcurrency(2)).Validate(context.Background(), table, src)
	require.NoError(t, err)

	assert.Equal(t, report.StatusFail, rep.Summary.Status)
	assert.Equal(t, 2, rep.Summary.Datasets)
	assert.Equal(t, "define.xml", rep.Define)
	assert.Equal(t, []string{"WC.VS.MISSING"}, rep.Unresolved)
	assert.Equal(t, []string{"WC.LB.UNUSED"}, rep.Unreferenced)

	keys := func(fs []report.Finding) []string {
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = f.Key
		}
		return out
	}
	assert.Equal(t, []string{"AE.AESEV", "DM.ARMCD", "DM.SEX"}, keys(rep.MissingInData))
	assert.Equal(t, []string{"DM.ARMCD"}, keys(rep.MissingInMetadata))

	codes := map[report.WarningCode]bool{}
	for _, w := range rep.Warnings {
		codes[w.Code] = true
	}
	assert.True(t, codes[report.WarnDatasetUnreadable])
	assert.True(t, codes[report.WarnUnresolvedReference])
	assert.True(t, codes[report.WarnDanglingCodeList])
}

func TestValidate_TargetMissing(t *testing.T) {
	src := &memSource{sets: map[string]*dataset.Dataset{}}
	rep, err := New().Validate(context.Background(), sexTable(t), src)
	require.NoError(t, err)

	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, report.WarnTargetMissing, rep.Warnings[0].Code)
	assert.Equal(t, "DM", rep.Warnings[0].Subject)
	assert.Equal(t, report.StatusPartial, rep.Summary.Status, "a rule with no dataset to check is a gap, not an empty run")
}

func TestValidate_Idempotent(t *testing.T) {
	dm := strRows([]string{"SEX"}, []string{"M"}, []string{"X"}, []string{"Z"})
	dm.Domain = "DM"
	ae := strRows([]string{"AEREL", "AESEV"}, []string{"RELATED", "BAD"})
	ae.Domain = "AE"
	src := &memSource{sets: map[string]*dataset.Dataset{"DM": dm, "AE": ae}}

	table := resolve(t, combined(sexDocument(), aesevDocument()))
	require.Len(t, table.Lookup("AE", "AESEV"), 1)

	render := func() string {
		rep, err := New(WithConcurrency(4)).Validate(context.Background(), table, src)
		require.NoError(t, err)
		out, err := yaml.Marshal(struct {
			A []report.Finding
			B []report.Finding
			W []report.Warning
		}{rep.MissingInData, rep.MissingInMetadata, rep.Warnings})
		require.NoError(t, err)
		return string(out)
	}

	first := render()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, render())
	}
}

func TestValidate_Errors(t *testing.T) {
	v := New()
	_, err := v.Validate(context.Background(), nil, &memSource{})
	require.Error(t, err)

	_, err = v.Validate(context.Background(), sexTable(t), nil)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dm := strRows([]string{"SEX"}, []string{"M"})
	_, err = v.Validate(ctx, sexTable(t), &memSource{sets: map[string]*dataset.Dataset{"DM": dm}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWithConcurrency(t *testing.T) {
	assert.Equal(t, 1, New(WithConcurrency(0)).Concurrency)
	assert.Equal(t, 64, New(WithConcurrency(1000)).Concurrency)
	assert.Equal(t, 8, New(WithConcurrency(8)).Concurrency)
}

func TestWriteMetrics(t *testing.T) {
	dm := strRows([]string{"SEX"}, []string{"M"})
	dm.Domain = "DM"
	_, err := New().Validate(context.Background(), sexTable(t), &memSource{sets: map[string]*dataset.Dataset{"DM": dm}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "clcheck.prom")
	require.NoError(t, WriteMetrics(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "clcheck_rules_evaluated_total"))
}
