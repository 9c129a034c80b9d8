// SPDX-License-Identifier: MPL-2.0

package discovery

import "fmt"

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks findings shown only in verbose mode.
	SeverityInfo Severity = "info"
)

const (
	// CodeUnterminatedLiteral is reported when a log call's string literal
	// is not closed on the same line.
	CodeUnterminatedLiteral = "unterminated_literal"
	// CodeNoTrailingArguments is reported for a complete literal that is not
	// followed by ", " and is therefore not extracted.
	CodeNoTrailingArguments = "call_without_trailing_arguments"
	// CodeSymlinkNotFollowed is reported for a symbolic link to a directory
	// or source file that was skipped because links are not followed.
	CodeSymlinkNotFollowed = "symlink_not_followed"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Location points at a log call in a source file. Line and Column are
	// 1-based; a zero Line refers to the file as a whole.
	Location struct {
		Path   string
		Line   int
		Column int
	}

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or info).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "unterminated_literal").
		Code string
		// Message is the human-readable description.
		Message string
		// Location is where the finding was made.
		Location Location
	}
)

func (l Location) String() string {
	if l.Line == 0 {
		return l.Path
	}
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}
