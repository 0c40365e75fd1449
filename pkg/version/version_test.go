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

package version

import (
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Version
		wantErr error
	}{
		{name: "define 2.0", in: "2.0.0", want: Version{Major: 2, Precision: 3}},
		{name: "define 2.1.7", in: "2.1.7", want: Version{Major: 2, Minor: 1, Patch: 7, Precision: 3}},
		{name: "two parts", in: "1.0", want: Version{Major: 1, Precision: 2}},
		{name: "prefix", in: "v2.1", want: Version{Major: 2, Minor: 1, Precision: 2}},
		{name: "suffix", in: "2.1.0-draft", want: Version{Major: 2, Minor: 1, Precision: 3, Extras: "-draft"}},
		{name: "spaces", in: " 2.0 ", want: Version{Major: 2, Precision: 2}},
		{name: "empty", in: "", wantErr: ErrEmptyVersion},
		{name: "too many", in: "1.2.3.4", wantErr: ErrTooManyComponents},
		{name: "alpha", in: "two.0", wantErr: ErrNonNumeric},
		{name: "empty component", in: "2..1", wantErr: ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2.0.0", "2.0.0", 0},
		{"2.1.7", "2.0.0", 1},
		{"1.0", "2.0", -1},
		{"2", "2.1.7", 0},
		{"2.0.1", "2.0.0", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			got := MustParseVersion(tt.a).Compare(MustParseVersion(tt.b))
			if got != tt.want {
				t.Errorf("Compare = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestVersion_String(t *testing.T) {
	for _, s := range []string{"2", "2.1", "2.1.7"} {
		if got := MustParseVersion(s).String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}

func TestMustParseVersion_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseVersion("x")
}

func FuzzParseVersion(f *testing.F) {
	for _, seed := range []string{"2.0.0", "v1.2", "2.1.0-draft", "", "1..2"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		v, err := ParseVersion(s)
		if err != nil {
			return
		}
		if v.Precision < 1 || v.Precision > 3 {
			t.Errorf("precision %d out of range for %q", v.Precision, s)
		}
		if v.Compare(v) != 0 {
			t.Errorf("version %q does not compare equal to itself", s)
		}
	})
}
