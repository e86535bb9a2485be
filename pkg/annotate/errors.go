package annotate

import "fmt"

// Decode errors are all-or-nothing: any of them aborts the whole decode
// and no partial overlay is ever returned. Each condition gets its own
// type so callers can branch with errors.As.

// AnnotationError reports a document-level failure: the overlay string
// cannot be split into well-formed lines at all, or its line count does
// not cover the token sequence.
type AnnotationError struct {
	Msg string
}

func (e *AnnotationError) Error() string {
	return "parse annotation: " + e.Msg
}

// ColumnCountError reports a line with other than four tab-separated
// fields.
type ColumnCountError struct {
	Line  int // 1-based line number
	Found int // fields actually present
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("line %d: insufficient columns: found %d, want 4", e.Line, e.Found)
}

// LineRangeError reports a position outside [1, tokenCount].
type LineRangeError struct {
	Line      int
	Requested int
	Available int
}

func (e *LineRangeError) Error() string {
	return fmt.Sprintf("line %d: position %d out of range (have %d tokens)",
		e.Line, e.Requested, e.Available)
}

// PunctuationTermError reports a separator-token line carrying a nonzero
// status or a non-empty translation.
type PunctuationTermError struct {
	Position int
}

func (e *PunctuationTermError) Error() string {
	return fmt.Sprintf("position %d: punctuation term carries annotation data", e.Position)
}

// LineError reports any other structural failure of a single line.
type LineError struct {
	Line int
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
