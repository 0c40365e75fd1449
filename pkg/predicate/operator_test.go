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

package predicate

import (
	"testing"

	"github.com/NVIDIA/codelist-check/pkg/dataset"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComparator(t *testing.T) {
	tests := []struct {
		in      string
		want    Comparator
		wantErr bool
	}{
		{in: "EQ", want: ComparatorEQ},
		{in: "ne", want: ComparatorNE},
		{in: " IN ", want: ComparatorIN},
		{in: "NOTIN", want: ComparatorNOTIN},
		{in: "LT", wantErr: true},
		{in: "GE", wantErr: true},
		{in: "", wantErr: true},
		{in: "==", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseComparator(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, clerrors.ErrCodeMalformedMetadata, clerrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComparator_Negated(t *testing.T) {
	assert.False(t, ComparatorEQ.Negated())
	assert.False(t, ComparatorIN.Negated())
	assert.True(t, ComparatorNE.Negated())
	assert.True(t, ComparatorNOTIN.Negated())
}

func TestComparator_Tests(t *testing.T) {
	m, f, x, null := dataset.String("M"), dataset.String("F"), dataset.String("X"), dataset.Null()

	eq := ComparatorEQ.Scalar("M")
	assert.True(t, eq(m))
	assert.False(t, eq(f))
	assert.False(t, eq(null))

	ne := ComparatorNE.Scalar("M")
	assert.False(t, ne(m))
	assert.True(t, ne(f))
	assert.True(t, ne(null))

	in := ComparatorIN.Set([]string{"M", "F"})
	assert.True(t, in(m))
	assert.True(t, in(f))
	assert.False(t, in(x))
	assert.False(t, in(null))

	notin := ComparatorNOTIN.Set([]string{"M", "F"})
	assert.False(t, notin(m))
	assert.True(t, notin(x))
	assert.True(t, notin(null))
}

func TestComparator_SetCopiesValues(t *testing.T) {
	values := []string{"M"}
	in := ComparatorIN.Set(values)
	values[0] = "F"
	assert.True(t, in(dataset.String("M")))
}
