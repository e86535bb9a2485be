package annotate

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/HugoFara/lwt-sub019/pkg/tokenize"
)

// Annotation is one overlay entry, covering exactly one token.
type Annotation struct {
	Position    int
	Term        string // raw token text, original case
	Status      Status
	Translation string
}

// TermKey case-folds a term for matching. Folding, not lowercasing, so
// that pairs like ß/ss compare equal across languages.
func TermKey(term string) string {
	return cases.Fold().String(term)
}

// Entry is the vocabulary data attached to a term key.
type Entry struct {
	Status      Status
	Translation string
}

// Lookup resolves a case-folded term key to its vocabulary entry. It is
// supplied by the caller, typically backed by the term store.
type Lookup func(termKey string) (Entry, bool)

// Encode produces the persisted overlay for a fresh annotation pass: one
// line per token in token order,
//
//	position<TAB>term<TAB>status<TAB>translation<LF>
//
// Separator tokens get status 0 and an empty translation. Word tokens are
// resolved through lookup; unmatched words default to Unknown. A nil
// lookup annotates every word as Unknown.
func Encode(tokens []tokenize.Token, lookup Lookup) (string, error) {
	anns := make([]Annotation, 0, len(tokens))
	for _, t := range tokens {
		a := Annotation{Position: t.Position, Term: t.Text}
		if t.Kind == tokenize.Word {
			a.Status = Unknown
			if lookup != nil {
				if e, ok := lookup(TermKey(t.Text)); ok {
					a.Status = e.Status
					a.Translation = e.Translation
				}
			}
		}
		anns = append(anns, a)
	}
	return EncodeAnnotations(anns)
}

// EncodeAnnotations serializes an overlay verbatim. Terms and translations
// must be free of TAB and newline; the encoder rejects them rather than
// silently corrupting the line format.
func EncodeAnnotations(anns []Annotation) (string, error) {
	var b strings.Builder
	for _, a := range anns {
		if strings.ContainsAny(a.Term, "\t\n") {
			return "", fmt.Errorf("position %d: term contains tab or newline", a.Position)
		}
		if strings.ContainsAny(a.Translation, "\t\n") {
			return "", fmt.Errorf("position %d: translation contains tab or newline", a.Position)
		}
		b.WriteString(strconv.Itoa(a.Position))
		b.WriteByte('\t')
		b.WriteString(a.Term)
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(int(a.Status)))
		b.WriteByte('\t')
		b.WriteString(a.Translation)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Decode parses a persisted overlay against the token sequence it
// annotates. It enforces the full per-line validation: four columns,
// positions contiguous from 1 and covering every token, and separator
// tokens free of annotation data. Statuses outside the enumeration
// normalize to Unknown; every other defect aborts the decode.
func Decode(overlay string, tokens []tokenize.Token) ([]Annotation, error) {
	anns, err := Parse(overlay)
	if err != nil {
		return nil, err
	}
	if len(anns) > len(tokens) {
		// the first surplus line references a token that does not exist
		return nil, &LineRangeError{
			Line:      len(tokens) + 1,
			Requested: anns[len(tokens)].Position,
			Available: len(tokens),
		}
	}
	if len(anns) < len(tokens) {
		return nil, &AnnotationError{
			Msg: fmt.Sprintf("overlay has %d lines for %d tokens", len(anns), len(tokens)),
		}
	}
	for i, a := range anns {
		if tokens[i].Kind != tokenize.Separator {
			continue
		}
		if a.Status != None || a.Translation != "" {
			return nil, &PunctuationTermError{Position: a.Position}
		}
	}
	return anns, nil
}

// Parse validates the overlay structurally, without a token sequence to
// cross-check against. The reconciler uses it on the previous overlay,
// whose tokenization no longer exists. A missing final newline is
// tolerated; the encoder always writes one.
func Parse(overlay string) ([]Annotation, error) {
	if overlay == "" {
		return nil, nil
	}
	lines := strings.Split(strings.TrimSuffix(overlay, "\n"), "\n")

	anns := make([]Annotation, 0, len(lines))
	for i, line := range lines {
		lineNo := i + 1
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, &ColumnCountError{Line: lineNo, Found: len(fields)}
		}
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, &LineError{Line: lineNo, Msg: fmt.Sprintf("bad position %q", fields[0])}
		}
		if pos < 1 || pos > len(lines) {
			return nil, &LineRangeError{Line: lineNo, Requested: pos, Available: len(lines)}
		}
		if pos != lineNo {
			return nil, &LineError{
				Line: lineNo,
				Msg:  fmt.Sprintf("position %d out of order, want %d", pos, lineNo),
			}
		}
		code, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, &LineError{Line: lineNo, Msg: fmt.Sprintf("bad status %q", fields[2])}
		}
		anns = append(anns, Annotation{
			Position:    pos,
			Term:        fields[1],
			Status:      NormalizeStatus(code),
			Translation: fields[3],
		})
	}
	return anns, nil
}
