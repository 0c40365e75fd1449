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

package defaults

// Dictionary code lists whose terms live in an external terminology
// (WHODrug, MedDRA) and are never checked against dataset values.
const (
	CodeListDrugDictionary = "CL.DRUGDICT"
	CodeListMedDRA         = "CL.MEDDRA"
)

// ExcludedCodeLists returns a fresh copy of the default excluded dictionary code lists.
func ExcludedCodeLists() []string {
	return []string{CodeListDrugDictionary, CodeListMedDRA}
}

// CheckValueDelimiter splits a single CheckValue text into a value set.
const CheckValueDelimiter = ","

// Input limits.
const (
	// MaxDefineSize caps the size of a define.xml document read into memory.
	MaxDefineSize = 64 << 20

	// MaxDatasetSize caps the size of a single dataset file read into memory.
	MaxDatasetSize = 512 << 20

	// MaxReportSize caps the size of a saved report read back for rendering.
	MaxReportSize = 64 << 20
)

// Validation concurrency.
const (
	// DefaultConcurrency is the number of domains validated in parallel.
	DefaultConcurrency = 4

	// MaxConcurrency bounds user-supplied concurrency.
	MaxConcurrency = 64
)

// Server defaults.
const (
	DefaultServerPort      = 8080
	DefaultRateLimit       = 10
	DefaultRateLimitBurst  = 20
	DefaultMaxRequestBytes = 1 << 20
)
