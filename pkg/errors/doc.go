// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// The codes mirror the failure taxonomy of a codelist check: resolution-time
// structural problems (MALFORMED_METADATA) abort the run, while per-unit
// problems (UNRESOLVED_REFERENCE, DANGLING_CODELIST_REFERENCE,
// VALIDATION_TARGET_MISSING) are reported as warnings and never abort.
//
// Example usage:
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeMalformedMetadata,
//	    "unknown comparator",
//	    map[string]any{
//	        "whereClause": "WC.AE.AESEV.REL",
//	        "comparator":  "LT",
//	    },
//	)
package errors
