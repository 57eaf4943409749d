package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeUnknown       ErrorCode = "COMMON_000"
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeValidation    ErrorCode = "COMMON_002"
	ErrCodeNotFound      ErrorCode = "COMMON_003"
	ErrCodeSerialization ErrorCode = "COMMON_004"
	ErrCodeConfigInvalid ErrorCode = "COMMON_005"

	CodeOK ErrorCode = "OK"
)

// MDF Structure-File Error Codes
const (
	ErrCodeMDFRead      ErrorCode = "MDF_001"
	ErrCodeMDFEmpty     ErrorCode = "MDF_002"
	ErrCodeMDFMalformed ErrorCode = "MDF_003"
)

// Topology Error Codes
const (
	ErrCodeDanglingBond   ErrorCode = "TOP_001"
	ErrCodeUnresolvedType ErrorCode = "TOP_002"
	ErrCodeAtomNotFound   ErrorCode = "TOP_003"
	ErrCodeDuplicateAtom  ErrorCode = "TOP_004"
)

// Parameter-File Error Codes
const (
	ErrCodeParamRead         ErrorCode = "PRM_001"
	ErrCodeMalformedKey      ErrorCode = "PRM_002"
	ErrCodeUnknownCategory   ErrorCode = "PRM_003"
	ErrCodeParamValueInvalid ErrorCode = "PRM_004"
)

// Matcher Error Codes
const (
	ErrCodeMatchArity    ErrorCode = "MAT_001"
	ErrCodeMatchCategory ErrorCode = "MAT_002"
)

// Report Error Codes
const (
	ErrCodeReportWrite  ErrorCode = "RPT_001"
	ErrCodeReportFormat ErrorCode = "RPT_002"
	ErrCodeReportStore  ErrorCode = "RPT_003"
)

// ErrorCodeExitStatus maps ErrorCodes to CLI process exit codes.  Input errors
// (bad files, bad flags) exit 2 so shell callers can distinguish them from
// internal failures, which exit 1.
var ErrorCodeExitStatus = map[ErrorCode]int{
	ErrCodeUnknown:       1,
	ErrCodeInternal:      1,
	ErrCodeValidation:    2,
	ErrCodeNotFound:      1,
	ErrCodeSerialization: 1,
	ErrCodeConfigInvalid: 2,

	ErrCodeMDFRead:      2,
	ErrCodeMDFEmpty:     2,
	ErrCodeMDFMalformed: 2,

	ErrCodeDanglingBond:   2,
	ErrCodeUnresolvedType: 1,
	ErrCodeAtomNotFound:   1,
	ErrCodeDuplicateAtom:  2,

	ErrCodeParamRead:         2,
	ErrCodeMalformedKey:      2,
	ErrCodeUnknownCategory:   2,
	ErrCodeParamValueInvalid: 2,

	ErrCodeMatchArity:    1,
	ErrCodeMatchCategory: 1,

	ErrCodeReportWrite:  1,
	ErrCodeReportFormat: 2,
	ErrCodeReportStore:  1,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeUnknown:       "unknown error",
	ErrCodeInternal:      "internal error",
	ErrCodeValidation:    "validation failed",
	ErrCodeNotFound:      "resource not found",
	ErrCodeSerialization: "serialization failed",
	ErrCodeConfigInvalid: "invalid configuration",

	ErrCodeMDFRead:      "failed to read MDF file",
	ErrCodeMDFEmpty:     "no valid atom records found in MDF file",
	ErrCodeMDFMalformed: "malformed MDF record",

	ErrCodeDanglingBond:   "declared bond partner does not exist",
	ErrCodeUnresolvedType: "topology element references an unresolved force-field type",
	ErrCodeAtomNotFound:   "atom not found in connectivity graph",
	ErrCodeDuplicateAtom:  "duplicate atom identifier",

	ErrCodeParamRead:         "failed to read parameter file",
	ErrCodeMalformedKey:      "parameter key has wrong arity for its category",
	ErrCodeUnknownCategory:   "unknown parameter category",
	ErrCodeParamValueInvalid: "invalid numeric value in parameter record",

	ErrCodeMatchArity:    "topology element arity does not fit the requested category",
	ErrCodeMatchCategory: "unsupported match category",

	ErrCodeReportWrite:  "failed to write report",
	ErrCodeReportFormat: "unsupported report format",
	ErrCodeReportStore:  "failed to store report",
}

// ExitStatusForCode returns the process exit code for an ErrorCode.
func ExitStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeExitStatus[code]; ok {
		return status
	}
	return 1
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsInputError returns true if the ErrorCode corresponds to bad user input
// (exit status 2) rather than an internal failure.
func IsInputError(code ErrorCode) bool {
	return ExitStatusForCode(code) == 2
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
