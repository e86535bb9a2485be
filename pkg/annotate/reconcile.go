package annotate

import (
	"github.com/HugoFara/lwt-sub019/pkg/tokenize"
)

// MatchStrategy picks which prior annotation claims a new token when
// several unconsumed entries share its term key. matches holds indexes
// into the prior-annotation list, in ascending document order; last is
// the index consumed by the previous match, or -1. The returned value
// must be one of matches.
type MatchStrategy func(matches []int, last int) int

// EarliestUnconsumed takes the first unconsumed entry in document order.
// This preserves left-to-right reading order and is the default.
func EarliestUnconsumed(matches []int, _ int) int {
	return matches[0]
}

// NearestForward takes the first unconsumed entry after the previously
// consumed one, wrapping to the earliest when none remain ahead. It keeps
// matches close together when a term repeats through a long text.
func NearestForward(matches []int, last int) int {
	for _, idx := range matches {
		if idx > last {
			return idx
		}
	}
	return matches[0]
}

// Reconciler re-aligns a previous overlay onto a fresh tokenization of
// the edited text. Tokens have no stable identity across edits, so prior
// entries are matched by case-folded term text instead.
type Reconciler struct {
	// Strategy resolves duplicate-term ambiguity. Nil means
	// EarliestUnconsumed.
	Strategy MatchStrategy
}

// prior is one reusable annotation from the old overlay.
type prior struct {
	key      string
	ann      Annotation
	consumed bool
}

// Reconcile maps oldOverlay onto the given tokenization and returns the
// replacement overlay. Every new word token claims at most one prior
// entry with the same term key; unmatched words reset to Unknown with no
// translation. The result always has exactly one line per token.
//
// A malformed oldOverlay aborts the whole reconciliation; the decode
// error is surfaced unchanged and nothing is partially applied.
func (r *Reconciler) Reconcile(oldOverlay string, sentences []tokenize.Sentence) (string, error) {
	oldAnns, err := Parse(oldOverlay)
	if err != nil {
		return "", err
	}

	// Only word entries carrying data are worth re-attaching. Separator
	// entries and untouched words (status Unknown, no translation) are
	// regenerated from the new tokens instead.
	var priors []prior
	for _, a := range oldAnns {
		if a.Status == None || (a.Status == Unknown && a.Translation == "") {
			continue
		}
		priors = append(priors, prior{key: TermKey(a.Term), ann: a})
	}

	strategy := r.Strategy
	if strategy == nil {
		strategy = EarliestUnconsumed
	}

	tokens := tokenize.Flatten(sentences)
	anns := make([]Annotation, 0, len(tokens))
	last := -1
	for _, t := range tokens {
		a := Annotation{Position: t.Position, Term: t.Text}
		if t.Kind == tokenize.Word {
			a.Status = Unknown
			if matches := unconsumedMatches(priors, TermKey(t.Text)); len(matches) > 0 {
				idx := strategy(matches, last)
				priors[idx].consumed = true
				last = idx
				a.Status = priors[idx].ann.Status
				a.Translation = priors[idx].ann.Translation
			}
		}
		anns = append(anns, a)
	}
	return EncodeAnnotations(anns)
}

func unconsumedMatches(priors []prior, key string) []int {
	var matches []int
	for i := range priors {
		if !priors[i].consumed && priors[i].key == key {
			matches = append(matches, i)
		}
	}
	return matches
}
