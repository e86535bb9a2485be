// Package segment inserts synthetic word-boundary sentinels into text in
// scripts without native spacing.
//
// Languages like Japanese provide no spaces for the tokenizer to split
// on. A Marker runs a morphological analysis over the raw text and places
// a zero-width space between adjacent morphemes; the tokenizer's
// spaceless-script path then expands those sentinels into real word
// boundaries. Learners can also place sentinels by hand, which the
// tokenizer honors the same way.
package segment

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/HugoFara/lwt-sub019/pkg/tokenize"
)

// Marker wraps a morphological tokenizer used for boundary detection.
type Marker struct {
	t *tokenizer.Tokenizer
}

// NewMarker builds a Marker backed by the IPA dictionary.
func NewMarker() (*Marker, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Marker{t: t}, nil
}

// Mark returns text with a zero-width-space sentinel between adjacent
// morphemes. Existing whitespace is left alone; the tokenizer later
// collapses sentinels that touch whitespace or sentence terminators, so
// over-marking around punctuation is harmless.
func (m *Marker) Mark(text string) string {
	tokens := m.t.Tokenize(text)
	var b strings.Builder
	b.Grow(len(text) + len(tokens)*3)

	wrote := false
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		surface := token.Surface
		if surface == "" {
			continue
		}
		if wrote {
			b.WriteRune(tokenize.ZeroWidthSpace)
		}
		b.WriteString(surface)
		wrote = true
	}
	return b.String()
}
