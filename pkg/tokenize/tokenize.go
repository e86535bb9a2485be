// Package tokenize splits raw text into sentences and word/separator
// tokens according to a language.Config.
//
// Tokens and sentences are derived values: they are recomputed on every
// call and never persisted. Positions are 1-based and contiguous across
// the whole text, so an annotation overlay can reference tokens by
// position alone.
package tokenize

import (
	"strings"
	"unicode"

	"github.com/HugoFara/lwt-sub019/pkg/language"
)

// Kind distinguishes word tokens from the separator runs between them.
type Kind int

const (
	// Word is a maximal run of term characters.
	Word Kind = iota
	// Separator is a maximal run of non-term characters (spaces,
	// punctuation, digits under the default profiles).
	Separator
)

func (k Kind) String() string {
	if k == Word {
		return "word"
	}
	return "separator"
}

// Token is a single segment of the source text.
type Token struct {
	// Position is 1-based and contiguous across the whole tokenization
	// pass, unique within it.
	Position int
	// Text is the raw substring, original case preserved.
	Text string
	Kind Kind
	// SentenceID is the 1-based index of the containing sentence.
	SentenceID int
}

// Sentence is an ordered run of tokens ending at a sentence boundary.
type Sentence struct {
	ID     int
	Text   string
	Tokens []Token
}

// ZeroWidthSpace is the sentinel rune used as a synthetic word-boundary
// hint in scripts without native spacing.
const ZeroWidthSpace = '​'

// ParagraphMark replaces newlines during tokenization. Token text must
// never contain a raw TAB or newline, or the tab-separated overlay lines
// built from it would fall apart; the pilcrow keeps paragraph structure
// visible as an ordinary separator.
const ParagraphMark = '¶'

var whitespaceNormalizer = strings.NewReplacer(
	"\r\n", " "+string(ParagraphMark)+" ",
	"\r", " "+string(ParagraphMark)+" ",
	"\n", " "+string(ParagraphMark)+" ",
	"\t", " ",
)

// Tokenize splits text into sentences and tokens under cfg.
//
// An invalid term-character class returns a *language.ConfigError and no
// partial result.
func Tokenize(text string, cfg language.Config) ([]Sentence, error) {
	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}

	text = whitespaceNormalizer.Replace(text)
	if cfg.NoNativeSpacing {
		text = expandSentinels(text, cfg)
	}

	var (
		sentences []Sentence
		position  = 1
	)
	for _, raw := range splitSentences(text, cfg) {
		s := Sentence{ID: len(sentences) + 1, Text: raw}
		for _, seg := range splitSegments(raw, classifier) {
			seg.Position = position
			seg.SentenceID = s.ID
			s.Tokens = append(s.Tokens, seg)
			position++
		}
		sentences = append(sentences, s)
	}
	return sentences, nil
}

// Flatten returns the tokens of all sentences in document order.
func Flatten(sentences []Sentence) []Token {
	var out []Token
	for _, s := range sentences {
		out = append(out, s.Tokens...)
	}
	return out
}

// Words returns only the word tokens, in document order.
func Words(sentences []Sentence) []Token {
	var out []Token
	for _, s := range sentences {
		for _, t := range s.Tokens {
			if t.Kind == Word {
				out = append(out, t)
			}
		}
	}
	return out
}

// splitSentences scans for terminator runs and cuts the text after them.
//
// Boundary policy: a run of sentence terminators ends the sentence unless
// the rune immediately after the run is a term-like continuation (a letter
// or digit directly attached, as in "U.S." or "3.14"). Spaceless-script
// languages cut at every terminator run, since their fullwidth terminators
// never appear inside words or numbers. A paragraph mark always ends the
// sentence.
func splitSentences(text string, cfg language.Config) []string {
	breaking := func(r rune) bool {
		return r == ParagraphMark || cfg.IsSentenceTerminator(r)
	}
	runes := []rune(text)
	var (
		sentences []string
		start     = 0
	)
	i := 0
	for i < len(runes) {
		if !breaking(runes[i]) {
			i++
			continue
		}
		// extend through the whole terminator run ("..." counts once)
		paragraph := runes[i] == ParagraphMark
		j := i + 1
		for j < len(runes) && breaking(runes[j]) {
			paragraph = paragraph || runes[j] == ParagraphMark
			j++
		}
		cut := paragraph || j >= len(runes) || cfg.NoNativeSpacing ||
			!(unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]))
		if cut {
			sentences = append(sentences, string(runes[start:j]))
			start = j
		}
		i = j
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

// splitSegments cuts one sentence into maximal same-kind runs.
func splitSegments(sentence string, classifier *language.Classifier) []Token {
	runes := []rune(sentence)
	var out []Token
	segStart := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) &&
			classifier.IsTermChar(runes[i]) == classifier.IsTermChar(runes[segStart]) {
			continue
		}
		kind := Separator
		if classifier.IsTermChar(runes[segStart]) {
			kind = Word
		}
		out = append(out, Token{Text: string(runes[segStart:i]), Kind: kind})
		segStart = i
	}
	return out
}

// expandSentinels rewrites zero-width-space boundary hints for spaceless
// scripts: a run of consecutive sentinels counts as one hint and becomes
// a single regular space, except next to a sentence terminator or
// existing whitespace, where it collapses to nothing. The result is
// trimmed so sentinels at the text edges leave no stray spaces.
func expandSentinels(text string, cfg language.Config) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(runes); i++ {
		if runes[i] != ZeroWidthSpace {
			b.WriteRune(runes[i])
			continue
		}
		j := i
		for j+1 < len(runes) && runes[j+1] == ZeroWidthSpace {
			j++
		}
		if !runTouchesBoundary(runes, i, j, cfg) {
			b.WriteRune(' ')
		}
		i = j
	}
	return strings.TrimSpace(b.String())
}

// runTouchesBoundary reports whether the sentinel run runes[lo..hi]
// touches a sentence terminator, whitespace, or a text edge.
func runTouchesBoundary(runes []rune, lo, hi int, cfg language.Config) bool {
	boundary := func(r rune) bool {
		return unicode.IsSpace(r) || cfg.IsSentenceTerminator(r)
	}
	if lo == 0 || hi == len(runes)-1 {
		return true
	}
	return boundary(runes[lo-1]) || boundary(runes[hi+1])
}
