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
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/header"
)

// APIVersion is the schema version of serialized reports and rule tables.
const APIVersion = "codelist-check.nvidia.com/v1alpha1"

// WarningCode identifies a non-fatal condition found while resolving or validating.
type WarningCode string

const (
	WarnUnresolvedReference      = WarningCode(clerrors.ErrCodeUnresolvedReference)
	WarnDanglingCodeList         = WarningCode(clerrors.ErrCodeDanglingCodeList)
	WarnTargetMissing            = WarningCode(clerrors.ErrCodeTargetMissing)
	WarnUnreferencedRule         WarningCode = "UNREFERENCED_RULE"
	WarnExternalCodeList         WarningCode = "EXTERNAL_CODELIST"
	WarnMissingVariable          WarningCode = "MISSING_VARIABLE"
	WarnMissingConditionVariable WarningCode = "MISSING_CONDITION_VARIABLE"
	WarnDatasetUnreadable        WarningCode = "DATASET_UNREADABLE"
	WarnUnsupportedDefineVersion WarningCode = "UNSUPPORTED_DEFINE_VERSION"
)

// Severity separates warnings that weaken a result from informational notices.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Severity returns the default severity of the code.
func (c WarningCode) Severity() Severity {
	switch c {
	case WarnUnreferencedRule, WarnExternalCodeList:
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// Warning is a single non-fatal condition.
type Warning struct {
	Code     WarningCode `json:"code" yaml:"code"`
	Severity Severity    `json:"severity" yaml:"severity"`
	Subject  string      `json:"subject" yaml:"subject"`
	Message  string      `json:"message" yaml:"message"`
}

// NewWarning returns a warning with the code's default severity.
func NewWarning(code WarningCode, subject, message string) Warning {
	return Warning{Code: code, Severity: code.Severity(), Subject: subject, Message: message}
}

// Direction is the side of the comparison a finding came from.
type Direction string

const (
	// MissingInData lists declared codes never observed in the (conditioned) rows.
	MissingInData Direction = "missingInData"

	// MissingInMetadata lists observed values the code list does not declare.
	MissingInMetadata Direction = "missingInMetadata"
)

// Finding is one non-empty difference for one rule.
type Finding struct {
	Key       string `json:"key" yaml:"key"`
	Domain    string `json:"domain" yaml:"domain"`
	Variable  string `json:"variable" yaml:"variable"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`

	// Rule is the 1-based position of the rule among the rules of Key.
	Rule   int      `json:"rule" yaml:"rule"`
	Values []string `json:"values" yaml:"values"`
}

// Status summarizes the outcome of a run.
type Status string

const (
	// StatusPass means every rule was checked and nothing differed.
	StatusPass Status = "pass"
	// StatusFail means at least one finding was reported.
	StatusFail Status = "fail"
	// StatusPartial means no findings, but warnings limited what was checked.
	StatusPartial Status = "partial"
	// StatusEmpty means there was nothing to check.
	StatusEmpty Status = "empty"
)

// Summary holds the counts of a report.
type Summary struct {
	Status            Status `json:"status" yaml:"status"`
	Rules             int    `json:"rules" yaml:"rules"`
	Domains           int    `json:"domains" yaml:"domains"`
	Datasets          int    `json:"datasets" yaml:"datasets"`
	MissingInData     int    `json:"missingInData" yaml:"missingInData"`
	MissingInMetadata int    `json:"missingInMetadata" yaml:"missingInMetadata"`
	Warnings          int    `json:"warnings" yaml:"warnings"`
	Notices           int    `json:"notices" yaml:"notices"`
	Duration          string `json:"duration" yaml:"duration"`
}

// Report is the result of one check run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Define string `json:"define,omitempty" yaml:"define,omitempty"`
	Data   string `json:"data,omitempty" yaml:"data,omitempty"`

	Summary Summary `json:"summary" yaml:"summary"`

	// Unresolved lists rule references with no rule definition.
	Unresolved []string `json:"unresolved" yaml:"unresolved"`

	// Unreferenced lists rule definitions nothing refers to.
	Unreferenced []string `json:"unreferenced" yaml:"unreferenced"`

	Warnings          []Warning `json:"warnings" yaml:"warnings"`
	MissingInData     []Finding `json:"missingInData" yaml:"missingInData"`
	MissingInMetadata []Finding `json:"missingInMetadata" yaml:"missingInMetadata"`
}

// HasFindings reports whether either direction has findings.
func (r *Report) HasFindings() bool {
	return len(r.MissingInData) > 0 || len(r.MissingInMetadata) > 0
}
