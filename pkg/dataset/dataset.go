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

package dataset

import "context"

// Row maps column names to values. A column missing from the map reads as null.
type Row map[string]Value

// Dataset is one domain's table.
type Dataset struct {
	Domain  string
	Columns []string
	Rows    []Row
}

// HasColumn reports whether name is a column of the dataset.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Source discovers and loads the datasets of a study.
type Source interface {
	// Domains returns the upper-case domain names available, sorted.
	Domains(ctx context.Context) ([]string, error)

	// Load reads the dataset of one domain.
	Load(ctx context.Context, domain string) (*Dataset, error)

	// Location describes where the datasets come from.
	Location() string

	Close() error
}
