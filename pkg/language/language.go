// Package language defines per-language tokenization settings.
//
// A Config is an immutable value object supplied on every call into the
// engine; there is no global language state. The term-character class is a
// compact spec string (literals, ranges, \u escapes) compiled once into a
// Classifier for rune lookups.
package language

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Config holds the tokenization settings for one language.
type Config struct {
	// TermCharacters is the character-class spec for code points that are
	// part of a word. Grammar: literal runes, `a-z` style ranges, and
	// `\uXXXX` or `\u{...}` escapes. Example: "a-zA-ZÀ-ÖØ-öø-ȳ".
	TermCharacters string

	// SentenceTerminators lists the runes that may end a sentence,
	// e.g. ".!?" for European languages or "。！？" for Japanese.
	SentenceTerminators string

	// NoNativeSpacing marks scripts without inter-word spacing
	// (Japanese, Chinese, Thai). For these, U+200B sentinels in the
	// input act as word-boundary hints.
	NoNativeSpacing bool
}

// ConfigError reports an invalid or missing language setting. It aborts
// the calling operation; there is no partial tokenization.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("language config: %s: %s", e.Field, e.Msg)
}

// IsSentenceTerminator reports whether r may end a sentence under cfg.
func (c Config) IsSentenceTerminator(r rune) bool {
	return strings.ContainsRune(c.SentenceTerminators, r)
}

// runeRange is a closed interval of code points.
type runeRange struct {
	lo, hi rune
}

// Classifier answers term-character membership for one compiled Config.
// It is immutable and safe for concurrent use.
type Classifier struct {
	ranges []runeRange
}

// Classifier compiles the term-character class. An empty or malformed
// spec returns a *ConfigError.
func (c Config) Classifier() (*Classifier, error) {
	if strings.TrimSpace(c.TermCharacters) == "" {
		return nil, &ConfigError{Field: "term_characters", Msg: "empty character class"}
	}
	ranges, err := parseCharClass(c.TermCharacters)
	if err != nil {
		return nil, err
	}
	return &Classifier{ranges: ranges}, nil
}

// IsTermChar reports whether r belongs to the term-character class.
func (cl *Classifier) IsTermChar(r rune) bool {
	// ranges are sorted by lo; find the first range ending at or after r.
	n := sort.Search(len(cl.ranges), func(i int) bool { return cl.ranges[i].hi >= r })
	return n < len(cl.ranges) && cl.ranges[n].lo <= r
}

// classAtom is one resolved rune of the spec; escaped atoms never act as
// the range operator.
type classAtom struct {
	r       rune
	escaped bool
}

// parseCharClass turns a spec string into sorted, merged rune ranges.
func parseCharClass(spec string) ([]runeRange, error) {
	var out []runeRange
	atoms, err := expandEscapes(spec)
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(atoms); i++ {
		lo := atoms[i].r
		// `a-z` range: an unescaped dash between two members. A leading
		// or trailing dash is a literal.
		if i+2 < len(atoms) && atoms[i+1].r == '-' && !atoms[i+1].escaped {
			hi := atoms[i+2].r
			if hi < lo {
				return nil, &ConfigError{
					Field: "term_characters",
					Msg:   fmt.Sprintf("inverted range %q-%q", lo, hi),
				}
			}
			out = append(out, runeRange{lo: lo, hi: hi})
			i += 2
			continue
		}
		out = append(out, runeRange{lo: lo, hi: lo})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].lo < out[j].lo })
	// merge overlapping and adjacent ranges
	merged := out[:0]
	for _, r := range out {
		if n := len(merged); n > 0 && r.lo <= merged[n-1].hi+1 {
			if r.hi > merged[n-1].hi {
				merged[n-1].hi = r.hi
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged, nil
}

// expandEscapes resolves \uXXXX, \u{...} and \\ sequences to atoms.
func expandEscapes(spec string) ([]classAtom, error) {
	var out []classAtom
	runes := []rune(spec)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' {
			out = append(out, classAtom{r: runes[i]})
			continue
		}
		if i+1 >= len(runes) {
			return nil, &ConfigError{Field: "term_characters", Msg: "dangling backslash"}
		}
		switch runes[i+1] {
		case '\\', '-':
			out = append(out, classAtom{r: runes[i+1], escaped: true})
			i++
		case 'u':
			r, consumed, err := parseUnicodeEscape(runes[i:])
			if err != nil {
				return nil, err
			}
			out = append(out, classAtom{r: r, escaped: true})
			i += consumed - 1
		default:
			return nil, &ConfigError{
				Field: "term_characters",
				Msg:   fmt.Sprintf("unsupported escape \\%c", runes[i+1]),
			}
		}
	}
	return out, nil
}

// parseUnicodeEscape reads `\uXXXX` or `\u{HEX}` starting at runes[0] == '\\'.
// It returns the decoded rune and the number of runes consumed.
func parseUnicodeEscape(runes []rune) (rune, int, error) {
	bad := func(msg string) (rune, int, error) {
		return 0, 0, &ConfigError{Field: "term_characters", Msg: msg}
	}
	if len(runes) < 3 {
		return bad("truncated \\u escape")
	}
	if runes[2] == '{' {
		end := -1
		for j := 3; j < len(runes); j++ {
			if runes[j] == '}' {
				end = j
				break
			}
		}
		if end < 0 {
			return bad("unterminated \\u{...} escape")
		}
		v, err := strconv.ParseUint(string(runes[3:end]), 16, 32)
		if err != nil {
			return bad(fmt.Sprintf("bad \\u{...} escape %q", string(runes[3:end])))
		}
		return rune(v), end + 1, nil
	}
	if len(runes) < 6 {
		return bad("truncated \\u escape")
	}
	v, err := strconv.ParseUint(string(runes[2:6]), 16, 32)
	if err != nil {
		return bad(fmt.Sprintf("bad \\u escape %q", string(runes[2:6])))
	}
	return rune(v), 6, nil
}
