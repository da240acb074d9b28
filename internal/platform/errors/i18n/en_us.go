package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeIO               = "IO_ERROR"
	CodeMalformedLine    = "MALFORMED_LINE"
	CodeUnknownDirective = "UNKNOWN_DIRECTIVE"
	CodeEmptyPathToken   = "EMPTY_PATH_TOKEN"
	CodeIncludeCycle     = "INCLUDE_CYCLE"
	CodeKindMismatch     = "KIND_MISMATCH"
	CodeNotFound         = "NOT_FOUND"
)

var enUSMessages = map[Code]string{
	CodeIO:               "could not read {{.path}}",
	CodeMalformedLine:    "{{.path}}:{{.line}}: directive is missing a ':' separator",
	CodeUnknownDirective: "{{.path}}:{{.line}}: unknown directive {{.directive}}",
	CodeEmptyPathToken:   "{{.path}}:{{.line}}: {{.directive}} names an empty path",
	CodeIncludeCycle:     "{{.path}} includes itself through {{.chain}}",
	CodeKindMismatch:     "{{.directive}} already holds {{.existing}} data",
	CodeNotFound:         "record not found",
}
