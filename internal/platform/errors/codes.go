// Package errors provides structured error handling for the loader and its
// storage layer.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Loader errors
	CodeIO               Code = "IO_ERROR"
	CodeMalformedLine    Code = "MALFORMED_LINE"
	CodeUnknownDirective Code = "UNKNOWN_DIRECTIVE"
	CodeEmptyPathToken   Code = "EMPTY_PATH_TOKEN"
	CodeIncludeCycle     Code = "INCLUDE_CYCLE"
	CodeKindMismatch     Code = "KIND_MISMATCH"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// ExitCode maps domain codes to process exit codes. I/O and storage failures
// exit with 1; malformed input exits with 2.
func (c Code) ExitCode() int {
	switch c {
	case CodeMalformedLine,
		CodeUnknownDirective,
		CodeEmptyPathToken,
		CodeIncludeCycle,
		CodeKindMismatch:
		return 2
	default:
		return 1
	}
}
