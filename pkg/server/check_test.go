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

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NVIDIA/codelist-check/pkg/config"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/report"
	"github.com/NVIDIA/codelist-check/pkg/resolver"
	"github.com/NVIDIA/codelist-check/pkg/storage"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs/file"
)

const fixtureDefine = "../define/testdata/define.xml"

func studyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dm.csv"),
		[]byte("USUBJID,SEX,ARMCD\n01,M,1\n02,F,2\n03,U,1\n"), 0o600))
	return dir
}

func checkServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	h := NewCheckHandler(nil, cfg, "test")
	return New(WithHandler(h.Routes())).Handler()
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data)))
	return w
}

func keys(fs []report.Finding) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Key)
	}
	return out
}

func TestHandleCheck(t *testing.T) {
	dir := studyDir(t)
	h := checkServer(t, nil)

	t.Run("float rendering flags integer codes", func(t *testing.T) {
		w := post(t, h, RouteCheck, CheckRequest{Define: fixtureDefine, Data: dir})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var rep report.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
		assert.Equal(t, report.StatusFail, rep.Summary.Status)
		assert.Equal(t, []string{"DM.ARMCD"}, keys(rep.MissingInData))
		assert.Equal(t, []string{"DM.ARMCD"}, keys(rep.MissingInMetadata))
		assert.Equal(t, 1, rep.Summary.Datasets)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})

	t.Run("numeric codes", func(t *testing.T) {
		numeric := true
		w := post(t, h, RouteCheck, CheckRequest{Define: fixtureDefine, Data: dir, NumericCodes: &numeric})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var rep report.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
		assert.Empty(t, rep.MissingInData)
		assert.Empty(t, rep.MissingInMetadata)
		assert.Equal(t, report.StatusPartial, rep.Summary.Status)
	})
}

func TestHandleCheck_ReportMetrics(t *testing.T) {
	dir := studyDir(t)
	h := checkServer(t, nil)

	failed := checkReports.WithLabelValues(string(report.StatusFail))
	before := testutil.ToFloat64(failed)
	findings := testutil.ToFloat64(checkFindings)

	w := post(t, h, RouteCheck, CheckRequest{Define: fixtureDefine, Data: dir})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, before+1, testutil.ToFloat64(failed))
	assert.Equal(t, findings+2, testutil.ToFloat64(checkFindings), "DM.ARMCD in both directions")
}

func TestCheckHandler_Ready(t *testing.T) {
	ctx := context.Background()
	fs := storage.NewService()
	root := "mem://localhost/ready-study"
	require.NoError(t, fs.Upload(ctx, root+"/dm.csv", file.DefaultFileOsMode, strings.NewReader("SEX\nM\n")))

	cfg := config.Default()
	h := NewCheckHandler(fs, cfg, "test")
	require.NoError(t, h.Ready(ctx), "no allowed roots")

	h.Defaults.Server.AllowedRoots = []string{root}
	require.NoError(t, h.Ready(ctx))

	h.Defaults.Server.AllowedRoots = []string{root, "mem://localhost/ready-missing"}
	err := h.Ready(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ready-missing")
}

func TestHandleRules(t *testing.T) {
	h := checkServer(t, nil)

	w := post(t, h, RouteRules, CheckRequest{Define: fixtureDefine})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var table resolver.RuleTable
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	assert.Len(t, table.Rules, 5)
	assert.Equal(t, []string{"WC.VS.MISSING"}, table.Unresolved)
	assert.True(t, strings.HasSuffix(table.Define, "/define.xml"))
}

func TestHandleCheck_Errors(t *testing.T) {
	dir := studyDir(t)

	cfg := config.Default()
	cfg.Server.MaxRequestBytes = 256
	cfg.Server.AllowedRoots = []string{dir}
	h := checkServer(t, cfg)

	tests := []struct {
		name   string
		method string
		body   string
		status int
		code   clerrors.ErrorCode
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed, clerrors.ErrCodeMethodNotAllowed},
		{"bad json", http.MethodPost, "{", http.StatusBadRequest, clerrors.ErrCodeInvalidRequest},
		{"unknown field", http.MethodPost, `{"define":"x","bogus":1}`, http.StatusBadRequest, clerrors.ErrCodeInvalidRequest},
		{"missing define", http.MethodPost, `{"data":"x"}`, http.StatusBadRequest, clerrors.ErrCodeInvalidRequest},
		{"outside roots", http.MethodPost, `{"define":"/etc/passwd","data":"/etc"}`, http.StatusForbidden, clerrors.ErrCodeInvalidRequest},
		{"too large", http.MethodPost, `{"define":"` + strings.Repeat("a", 400) + `"}`, http.StatusRequestEntityTooLarge, clerrors.ErrCodeInvalidRequest},
		{"missing define file", http.MethodPost, `{"define":"` + filepath.Join(dir, "none.xml") + `","data":"` + dir + `"}`, http.StatusNotFound, clerrors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, RouteCheck, strings.NewReader(tt.body)))
			require.Equal(t, tt.status, w.Code, w.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.code), resp.Code)
		})
	}
}

func TestHandleCheck_MalformedDefine(t *testing.T) {
	dir := studyDir(t)
	define := filepath.Join(dir, "define.xml")
	require.NoError(t, os.WriteFile(define, []byte(`<ODM xmlns:def="http://www.cdisc.org/ns/def/v2.0">
<def:WhereClauseDef OID="WC.DM.AGE"><RangeCheck Comparator="GT" def:ItemOID="IT.DM.AGE"><CheckValue>18</CheckValue></RangeCheck></def:WhereClauseDef>
</ODM>`), 0o600))

	w := post(t, checkServer(t, nil), RouteCheck, CheckRequest{Define: define, Data: dir})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(clerrors.ErrCodeMalformedMetadata), resp.Code)
}
