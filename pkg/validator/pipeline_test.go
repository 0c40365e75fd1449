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
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs/file"

	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/report"
	"github.com/NVIDIA/codelist-check/pkg/storage"
)

const pipelineRoot = "mem://localhost/pipeline-test"

func uploadStudy(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	fs := storage.NewService()

	define, err := os.ReadFile("../define/testdata/define.xml")
	require.NoError(t, err)

	objects := map[string]string{
		"define.xml":  string(define),
		"sdtm/dm.csv": "USUBJID,SEX,ARMCD\nS1,M,1\nS2,F,2\nS3,U,1\n",
		"sdtm/ae.csv": "AEREL,AESEV\nRELATED,MILD\nRELATED,MODERATE\nNOT RELATED,SEVERE\n",
	}
	for name, body := range objects {
		require.NoError(t, fs.Upload(ctx, pipelineRoot+"/"+name, file.DefaultFileOsMode, strings.NewReader(body)))
	}
}

func TestPipelineRules(t *testing.T) {
	uploadStudy(t)

	table, err := NewPipeline(nil, nil, nil).Rules(context.Background(), pipelineRoot+"/define.xml")
	require.NoError(t, err)
	assert.Equal(t, pipelineRoot+"/define.xml", table.Define)
	assert.Len(t, table.Rules, 5)
}

func TestPipelineCheck(t *testing.T) {
	uploadStudy(t)

	p := NewPipeline(storage.NewService(), nil, New(WithNumericCodes(true)))
	rep, err := p.Check(context.Background(), pipelineRoot+"/define.xml", pipelineRoot+"/sdtm")
	require.NoError(t, err)

	assert.Equal(t, report.StatusFail, rep.Summary.Status)
	assert.Equal(t, 2, rep.Summary.Datasets)
	assert.Empty(t, rep.MissingInMetadata)

	require.Len(t, rep.MissingInData, 1)
	assert.Equal(t, "AE.AESEV", rep.MissingInData[0].Key)
	assert.Equal(t, []string{"SEVERE"}, rep.MissingInData[0].Values)
}

func TestPipelineCheckErrors(t *testing.T) {
	uploadStudy(t)
	ctx := context.Background()
	p := NewPipeline(nil, nil, nil)

	_, err := p.Check(ctx, pipelineRoot+"/define.xml", "")
	require.Error(t, err)
	assert.Equal(t, clerrors.ErrCodeInvalidRequest, clerrors.CodeOf(err))

	_, err = p.Check(ctx, pipelineRoot+"/missing.xml", pipelineRoot+"/sdtm")
	require.Error(t, err)
	assert.Equal(t, clerrors.ErrCodeNotFound, clerrors.CodeOf(err))
}
