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

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
)

// datasetJSON is the subset of CDISC Dataset-JSON v1.1 read here.
type datasetJSON struct {
	Version string       `json:"datasetJSONVersion"`
	Name    string       `json:"name"`
	Columns []jsonColumn `json:"columns"`
	Rows    [][]any      `json:"rows"`
}

type jsonColumn struct {
	ItemOID  string `json:"itemOID"`
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

// ReadJSON reads a Dataset-JSON v1.1 document. JSON numbers become numbers,
// null becomes null and booleans render as "true"/"false".
func ReadJSON(r io.Reader, domain string) (*Dataset, error) {
	var doc datasetJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode dataset-json: %w", err)
	}

	ds := &Dataset{Domain: domain, Columns: make([]string, 0, len(doc.Columns)), Rows: make([]Row, 0, len(doc.Rows))}
	for i, c := range doc.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("dataset-json column %d has no name", i)
		}
		ds.Columns = append(ds.Columns, c.Name)
	}

	for i, rec := range doc.Rows {
		if len(rec) != len(ds.Columns) {
			return nil, fmt.Errorf("dataset-json row %d has %d cells, want %d", i, len(rec), len(ds.Columns))
		}
		row := make(Row, len(rec))
		for col, cell := range rec {
			v, err := jsonValue(cell)
			if err != nil {
				return nil, fmt.Errorf("dataset-json row %d column %s: %w", i, ds.Columns[col], err)
			}
			row[ds.Columns[col]] = v
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func jsonValue(cell any) (Value, error) {
	switch c := cell.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(c), nil
	case float64:
		return Number(c), nil
	case bool:
		return String(strconv.FormatBool(c)), nil
	default:
		return Null(), fmt.Errorf("unsupported cell type %T", cell)
	}
}
