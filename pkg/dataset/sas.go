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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kshedden/datareader"
)

// sasChunkRows is the number of rows decoded per read.
const sasChunkRows = 10000

// ReadSAS7BDAT reads a SAS dataset file. Numeric variables become numbers,
// so integer codes widen to float the way SAS tooling loads them. Character
// variables are right-trimmed text; missing cells of either kind are null.
func ReadSAS7BDAT(r io.ReadSeeker, domain string) (*Dataset, error) {
	sas, err := datareader.NewSAS7BDATReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open sas7bdat: %w", err)
	}

	columns := append([]string{}, sas.ColumnNames()...)
	for i := range columns {
		columns[i] = strings.TrimSpace(columns[i])
	}

	ds := &Dataset{Domain: domain, Columns: columns, Rows: []Row{}}
	for {
		chunk, err := sas.Read(sasChunkRows)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sas7bdat rows: %w", err)
		}
		n, err := appendSeries(ds, chunk)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return ds, nil
}

// appendSeries adds the rows of one decoded chunk, one series per column in
// column order, and returns how many rows it added.
func appendSeries(ds *Dataset, chunk []*datareader.Series) (int, error) {
	if len(chunk) == 0 {
		return 0, nil
	}
	if len(chunk) != len(ds.Columns) {
		return 0, fmt.Errorf("sas7bdat chunk has %d columns, expected %d", len(chunk), len(ds.Columns))
	}

	cols := make([][]Value, len(chunk))
	n := -1
	for i, s := range chunk {
		values, err := seriesValues(s)
		if err != nil {
			return 0, err
		}
		if n >= 0 && len(values) != n {
			return 0, fmt.Errorf("sas7bdat column %s has %d rows, expected %d", ds.Columns[i], len(values), n)
		}
		n = len(values)
		cols[i] = values
	}

	for r := 0; r < n; r++ {
		row := make(Row, len(ds.Columns))
		for i, name := range ds.Columns {
			row[name] = cols[i][r]
		}
		ds.Rows = append(ds.Rows, row)
	}
	return n, nil
}

func seriesValues(s *datareader.Series) ([]Value, error) {
	missing := s.Missing()
	isMissing := func(i int) bool { return i < len(missing) && missing[i] }

	switch data := s.Data().(type) {
	case []float64:
		out := make([]Value, len(data))
		for i, f := range data {
			if isMissing(i) {
				out[i] = Null()
				continue
			}
			out[i] = Number(f)
		}
		return out, nil
	case []string:
		out := make([]Value, len(data))
		for i, str := range data {
			if isMissing(i) {
				out[i] = Null()
				continue
			}
			out[i] = String(strings.TrimRight(str, " \x00"))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported sas7bdat column type %T for %s", data, s.Name)
	}
}
