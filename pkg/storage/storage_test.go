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

package storage

import (
	"context"
	"strings"
	"testing"

	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs/file"
)

func TestURL(t *testing.T) {
	assert.Equal(t, "mem://localhost/study/define.xml", URL("mem://localhost/study/define.xml"))

	got := URL("/srv/study/define.xml")
	assert.Equal(t, "file:///srv/study/define.xml", got)

	rel := URL("define.xml")
	assert.True(t, strings.HasPrefix(rel, "file:///"))
	assert.True(t, strings.HasSuffix(rel, "/define.xml"))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "dm.csv", Base("mem://localhost/study/dm.csv"))
	assert.Equal(t, "ae.json", Base("file:///srv/ae.json"))
}

func TestWithin(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		roots []string
		want  bool
	}{
		{name: "no roots", url: "file:///etc/passwd", want: true},
		{name: "inside", url: "file:///srv/study/define.xml", roots: []string{"/srv/study"}, want: true},
		{name: "root itself", url: "file:///srv/study", roots: []string{"/srv/study/"}, want: true},
		{name: "sibling prefix", url: "file:///srv/study2/define.xml", roots: []string{"/srv/study"}},
		{name: "outside", url: "file:///etc/passwd", roots: []string{"/srv"}},
		{name: "traversal", url: "file:///srv/study/../../etc/passwd", roots: []string{"/srv/study"}},
		{name: "other scheme", url: "mem://localhost/srv/x", roots: []string{"/srv"}},
		{name: "second root", url: "mem://localhost/a/x", roots: []string{"/srv", "mem://localhost/a"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Within(tt.url, tt.roots))
		})
	}
}

func TestReadAll(t *testing.T) {
	ctx := context.Background()
	fs := NewService()
	URL := "mem://localhost/storage-test/object.txt"
	require.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader("hello")))

	data, err := ReadAll(ctx, fs, URL, 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = ReadAll(ctx, fs, URL, 4)
	require.Error(t, err)
	assert.Equal(t, clerrors.ErrCodeInvalidRequest, clerrors.CodeOf(err))

	_, err = ReadAll(ctx, fs, "mem://localhost/storage-test/missing.txt", 5)
	require.Error(t, err)
	assert.Equal(t, clerrors.ErrCodeNotFound, clerrors.CodeOf(err))
}
