// Package annotate implements the per-token annotation overlay: the
// learning status and translation layered on tokenized text, its
// line-oriented persisted format, and the reconciler that carries an
// overlay across edits of the source text.
package annotate

import "strconv"

// Status is a learning status code. The integer values are the persisted
// wire codes and must not be renumbered.
type Status int

const (
	// None marks separator tokens, which carry no learning state.
	None Status = 0
	// Unknown is the first learning stage and the default for words the
	// learner has not touched.
	Unknown Status = 1
	// Learning2 through Learning4 are the intermediate learning stages.
	Learning2 Status = 2
	Learning3 Status = 3
	Learning4 Status = 4
	// Learned marks a word the learner has finished studying.
	Learned Status = 5
	// Ignored marks a word excluded from study (names, numbers).
	Ignored Status = 98
	// WellKnown marks a word known before it was ever encountered here.
	WellKnown Status = 99
)

// Valid reports whether s is one of the defined codes.
func (s Status) Valid() bool {
	switch s {
	case None, Unknown, Learning2, Learning3, Learning4, Learned, Ignored, WellKnown:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case None:
		return "none"
	case Unknown:
		return "unknown"
	case Learning2, Learning3, Learning4:
		return "learning" + strconv.Itoa(int(s))
	case Learned:
		return "learned"
	case Ignored:
		return "ignored"
	case WellKnown:
		return "well-known"
	}
	return "invalid(" + strconv.Itoa(int(s)) + ")"
}

// NormalizeStatus maps a wire code to a Status. Codes outside the defined
// enumeration normalize to Unknown rather than failing the decode, so
// overlays written by newer or older format revisions stay readable.
func NormalizeStatus(code int) Status {
	s := Status(code)
	if !s.Valid() {
		return Unknown
	}
	return s
}
