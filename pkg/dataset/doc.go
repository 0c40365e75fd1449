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

// Package dataset reads study datasets into a small tabular model.
//
// A Dataset is one domain's table: ordered column names and rows of Values.
// Values are null, character or numeric; numeric values are float64 and
// render in float form ("1.0"), matching how statistical tooling loads
// integer columns. This is why integer-coded code lists report mismatches
// unless numeric code comparison is enabled in the validator.
//
// Sources:
//
//   - DirSource: a directory (any afs URL) of dm.sas7bdat / dm.csv / ae.json
//     files. CSV is header-first and read as text; .json is CDISC
//     Dataset-JSON v1.1; .sas7bdat is read with kshedden/datareader.
//   - SQLiteSource: a SQLite database with one table per domain.
//
// Open picks one from a location:
//
//	src, err := dataset.Open(ctx, storage.NewService(), "./sdtm")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	domains, _ := src.Domains(ctx)
//	dm, err := src.Load(ctx, "DM")
package dataset
