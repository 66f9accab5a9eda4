// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldPaths  = "paths"
	FieldInput  = "input"
	FieldOutput = "output"
	FieldFormat = "format"

	// Scan fields.
	FieldTabWidth = "tab_width"
	FieldOffset   = "offset"
	FieldLine     = "line"
	FieldColumn   = "column"
	FieldKind     = "kind"
	FieldMode     = "mode"

	// Statistics fields.
	FieldBytes     = "bytes"
	FieldTokens    = "tokens"
	FieldLines     = "lines"
	FieldDuration  = "duration"
	FieldFilesRead = "files_read"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
