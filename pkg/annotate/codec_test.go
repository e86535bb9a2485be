package annotate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoFara/lwt-sub019/pkg/language"
	"github.com/HugoFara/lwt-sub019/pkg/tokenize"
)

func frenchTokens(t *testing.T, text string) []tokenize.Token {
	t.Helper()
	sentences, err := tokenize.Tokenize(text, language.DefaultProfiles()["french"])
	require.NoError(t, err)
	return tokenize.Flatten(sentences)
}

func vocab(entries map[string]Entry) Lookup {
	return func(termKey string) (Entry, bool) {
		e, ok := entries[termKey]
		return e, ok
	}
}

func TestEncodeBasic(t *testing.T) {
	tokens := frenchTokens(t, "Le chat dort.")
	overlay, err := Encode(tokens, vocab(map[string]Entry{
		"chat": {Status: Learned, Translation: "cat"},
	}))
	require.NoError(t, err)

	want := "1\tLe\t1\t\n" +
		"2\t \t0\t\n" +
		"3\tchat\t5\tcat\n" +
		"4\t \t0\t\n" +
		"5\tdort\t1\t\n" +
		"6\t.\t0\t\n"
	assert.Equal(t, want, overlay)
}

func TestEncodeNilLookupDefaultsUnknown(t *testing.T) {
	tokens := frenchTokens(t, "chat")
	overlay, err := Encode(tokens, nil)
	require.NoError(t, err)
	assert.Equal(t, "1\tchat\t1\t\n", overlay)
}

func TestEncodeLookupIsCaseFolded(t *testing.T) {
	tokens := frenchTokens(t, "Chat")
	overlay, err := Encode(tokens, vocab(map[string]Entry{
		"chat": {Status: Learned, Translation: "cat"},
	}))
	require.NoError(t, err)
	// original casing survives in the term column, data is carried over
	assert.Equal(t, "1\tChat\t5\tcat\n", overlay)
}

func TestEncodeRejectsTabInTranslation(t *testing.T) {
	tokens := frenchTokens(t, "chat")
	_, err := Encode(tokens, vocab(map[string]Entry{
		"chat": {Status: Learned, Translation: "cat\tfeline"},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab or newline")
}

func TestRoundTrip(t *testing.T) {
	tokens := frenchTokens(t, "Le chat dort. Le chien aboie.")
	overlay, err := Encode(tokens, vocab(map[string]Entry{
		"chat":  {Status: Learned, Translation: "cat"},
		"chien": {Status: Learning2, Translation: "dog"},
	}))
	require.NoError(t, err)

	anns, err := Decode(overlay, tokens)
	require.NoError(t, err)
	require.Len(t, anns, len(tokens))

	again, err := EncodeAnnotations(anns)
	require.NoError(t, err)
	assert.Equal(t, overlay, again)
}

func TestDecodeInsufficientColumns(t *testing.T) {
	// A line with no tabs at all reports found=1.
	tokens := frenchTokens(t, "chat")
	_, err := Decode("abc\n", tokens)
	var colErr *ColumnCountError
	require.True(t, errors.As(err, &colErr), "want *ColumnCountError, got %v", err)
	assert.Equal(t, 1, colErr.Found)
	assert.Equal(t, 1, colErr.Line)
}

func TestDecodeLineOutOfRange(t *testing.T) {
	// Position 99 in a 5-token text.
	tokens := frenchTokens(t, "Le chat dort.") // 6 tokens
	tokens = tokens[:5]
	overlay := "1\tLe\t1\t\n" +
		"2\t \t0\t\n" +
		"3\tchat\t5\tcat\n" +
		"4\t \t0\t\n" +
		"99\tdort\t1\t\n"
	_, err := Decode(overlay, tokens)
	var rangeErr *LineRangeError
	require.True(t, errors.As(err, &rangeErr), "want *LineRangeError, got %v", err)
	assert.Equal(t, 99, rangeErr.Requested)
	assert.Equal(t, 5, rangeErr.Available)
}

func TestDecodeSurplusLinesOutOfRange(t *testing.T) {
	tokens := frenchTokens(t, "chat")
	overlay := "1\tchat\t1\t\n2\t \t0\t\n"
	_, err := Decode(overlay, tokens)
	var rangeErr *LineRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 1, rangeErr.Available)
	assert.Equal(t, 2, rangeErr.Requested)
}

func TestDecodeMissingLines(t *testing.T) {
	tokens := frenchTokens(t, "Le chat dort.")
	_, err := Decode("1\tLe\t1\t\n", tokens)
	var annErr *AnnotationError
	require.True(t, errors.As(err, &annErr), "want *AnnotationError, got %v", err)
}

func TestDecodePunctuationTerm(t *testing.T) {
	tokens := frenchTokens(t, "Le chat")
	// position 2 is the separator; it must not carry status or translation
	overlay := "1\tLe\t1\t\n2\t \t5\tspace\n3\tchat\t1\t\n"
	_, err := Decode(overlay, tokens)
	var punctErr *PunctuationTermError
	require.True(t, errors.As(err, &punctErr), "want *PunctuationTermError, got %v", err)
	assert.Equal(t, 2, punctErr.Position)
}

func TestDecodeOutOfOrder(t *testing.T) {
	tokens := frenchTokens(t, "Le chat")
	overlay := "2\t \t0\t\n1\tLe\t1\t\n3\tchat\t1\t\n"
	_, err := Decode(overlay, tokens)
	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr), "want *LineError, got %v", err)
}

func TestDecodeBadPositionAndStatus(t *testing.T) {
	tokens := frenchTokens(t, "chat")
	for _, overlay := range []string{
		"x\tchat\t1\t\n",
		"1\tchat\tx\t\n",
	} {
		_, err := Decode(overlay, tokens)
		var lineErr *LineError
		assert.True(t, errors.As(err, &lineErr), "overlay %q: want *LineError, got %v", overlay, err)
	}
}

func TestDecodeMissingTrailingNewlineTolerated(t *testing.T) {
	tokens := frenchTokens(t, "chat")
	anns, err := Decode("1\tchat\t1\t", tokens)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, "chat", anns[0].Term)
}

func TestDecodeBareLineWithoutNewline(t *testing.T) {
	// the no-tab line reports insufficient columns even without a final
	// newline
	tokens := frenchTokens(t, "chat")
	_, err := Decode("abc", tokens)
	var colErr *ColumnCountError
	require.True(t, errors.As(err, &colErr), "want *ColumnCountError, got %v", err)
	assert.Equal(t, 1, colErr.Found)
}

func TestDecodeUnknownStatusNormalizes(t *testing.T) {
	tokens := frenchTokens(t, "chat")
	anns, err := Decode("1\tchat\t42\t\n", tokens)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, Unknown, anns[0].Status)
}

func TestDecodeEmptyOverlayEmptyTokens(t *testing.T) {
	anns, err := Decode("", nil)
	require.NoError(t, err)
	assert.Empty(t, anns)
}

func TestStatusValidity(t *testing.T) {
	for _, s := range []Status{None, Unknown, Learning2, Learning3, Learning4, Learned, Ignored, WellKnown} {
		assert.True(t, s.Valid(), "status %d", s)
	}
	assert.False(t, Status(6).Valid())
	assert.False(t, Status(-1).Valid())
	assert.Equal(t, Unknown, NormalizeStatus(42))
	assert.Equal(t, WellKnown, NormalizeStatus(99))
}

func TestTermKeyFolds(t *testing.T) {
	assert.Equal(t, TermKey("Chat"), TermKey("chat"))
	assert.Equal(t, TermKey("STRASSE"), TermKey("straße"))
	assert.Equal(t, TermKey("猫"), "猫")
}
