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

package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const banner = "#########################"

// WriteText renders the report in the plain text layout reviewers read:
// notes, unaccounted rules, then the two finding blocks.
func (r *Report) WriteText(w io.Writer) error {
	b := bufio.NewWriter(w)

	b.WriteString("Please note: integer-based variables are read as float values and therefore will hit as missing in dataset/define-XML")
	b.WriteString("\n\t\tWHERECLAUSE CONDITIONs are shown as FIELD COMPARATOR VALUE clauses joined by AND")
	fmt.Fprintf(b, "\n\nStatus: %s (rules: %d, datasets: %d, missing in dataset: %d, missing in define-XML: %d)",
		r.Summary.Status, r.Summary.Rules, r.Summary.Datasets, r.Summary.MissingInData, r.Summary.MissingInMetadata)

	writeList(b, "WhereClauses not accounted for", r.Unreferenced)
	writeList(b, "WhereClauses referenced but not defined", r.Unresolved)

	if r.HasFindings() {
		b.WriteString("\n\nDATASET.VARIABLE\tWHERECLAUSE CONDITION\nCODELIST CODES")
	}
	writeFindings(b, "Missing in dataset", r.MissingInData)
	writeFindings(b, "Missing in define-XML", r.MissingInMetadata)

	if len(r.Warnings) > 0 {
		fmt.Fprintf(b, "\n\n%s Warnings %s", banner, banner)
		for _, warn := range r.Warnings {
			fmt.Fprintf(b, "\n%s\t%s\t%s", warn.Code, warn.Subject, warn.Message)
		}
	}
	b.WriteString("\n")

	return b.Flush()
}

func writeList(b *bufio.Writer, title string, oids []string) {
	if len(oids) == 0 {
		return
	}
	fmt.Fprintf(b, "\n\n%s %s %s\n", banner, title, banner)
	b.WriteString(strings.Join(oids, "\n"))
	fmt.Fprintf(b, "\n%s", strings.Repeat("#", 2*len(banner)+len(title)+2))
}

func writeFindings(b *bufio.Writer, title string, findings []Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s %s %s", banner, title, banner)
	for _, f := range findings {
		fmt.Fprintf(b, "\n%s:\t%s\n%s\n", f.Key, f.Condition, quoteValues(f.Values))
	}
}

func quoteValues(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
