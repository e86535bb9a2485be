package db

import (
	"time"

	"github.com/HugoFara/lwt-sub019/pkg/annotate"
)

// Text is a reading text with its persisted annotation overlay.
type Text struct {
	ID       int64
	Title    string
	Language string
	Body     string
	// Annotation is the whole-text overlay string, replaced wholesale on
	// every re-annotation. Empty until the text is first annotated.
	Annotation string
	CreatedAt  time.Time
}

// Term is a vocabulary entry the learner has touched.
type Term struct {
	ID       int64
	Language string
	// TermKey is the case-folded form used for matching.
	TermKey string
	// Display keeps the casing the learner first entered.
	Display      string
	Status       annotate.Status
	Translation  string
	Romanization string
}
