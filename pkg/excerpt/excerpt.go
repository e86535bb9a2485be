// Package excerpt produces length-bounded previews of a sentence, either
// centered on the sentence as a whole or on a specific term occurrence.
// Lengths are counted in runes so multibyte scripts truncate cleanly.
package excerpt

import "unicode"

// Ellipsis marks a cropped side of an excerpt.
const Ellipsis = "…"

var ellipsisWidth = len([]rune(Ellipsis))

// CenteredPortion returns text unchanged when it fits in maxLen runes;
// otherwise a centered substring with an ellipsis on each cropped side.
// For any maxLen of at least twice the ellipsis width the result never
// exceeds maxLen runes.
func CenteredPortion(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	content := maxLen - 2*ellipsisWidth
	if content < 0 {
		content = 0
	}
	start := (len(runes) - content) / 2
	return Ellipsis + string(runes[start:start+content]) + Ellipsis
}

// PortionAroundTerm returns a window of at most maxLen runes centered on
// the first case-insensitive occurrence of term. An ellipsis is added on
// a side only when text was cropped there, and the window contains the
// matched substring whenever it fits; a term wider than the window keeps
// the length bound and covers as much of the match as possible. When term
// does not occur, the plain centered portion is returned instead.
func PortionAroundTerm(text, term string, maxLen int) string {
	runes := []rune(text)
	matchStart, matchLen := indexFold(runes, []rune(term))
	if matchStart < 0 {
		return CenteredPortion(text, maxLen)
	}
	if len(runes) <= maxLen {
		return text
	}

	mid := matchStart + matchLen/2

	// Settle crop sides and window size together: reserving an ellipsis
	// shrinks the window, which can expose another cropped side or move
	// the window off the match. The flags only ever turn on, so this
	// converges in at most three rounds, and every side that ends up
	// cropped has its ellipsis reserved before the window is cut.
	var lead, trail bool
	content, start := 0, 0
	for {
		content = maxLen
		if lead {
			content -= ellipsisWidth
		}
		if trail {
			content -= ellipsisWidth
		}
		if content < 0 {
			content = 0
		}
		start = clamp(mid-content/2, 0, len(runes)-content)
		// integer centering can leave the match hanging over an edge;
		// slide the window to cover as much of it as fits
		if matchStart < start {
			start = matchStart
		}
		if end := matchStart + matchLen; end > start+content {
			start = clamp(end-content, 0, len(runes)-content)
		}
		nlead := lead || start > 0
		ntrail := trail || start+content < len(runes)
		if nlead == lead && ntrail == trail {
			break
		}
		lead, trail = nlead, ntrail
	}

	out := string(runes[start : start+content])
	if start > 0 {
		out = Ellipsis + out
	}
	if start+content < len(runes) {
		out += Ellipsis
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// indexFold finds the first case-insensitive occurrence of term in text,
// comparing rune by rune so indexes stay aligned with the original text.
// It returns the start index and match length in runes, or -1, 0.
func indexFold(text, term []rune) (int, int) {
	if len(term) == 0 || len(term) > len(text) {
		return -1, 0
	}
	for i := 0; i+len(term) <= len(text); i++ {
		match := true
		for j := range term {
			if unicode.ToLower(text[i+j]) != unicode.ToLower(term[j]) {
				match = false
				break
			}
		}
		if match {
			return i, len(term)
		}
	}
	return -1, 0
}
