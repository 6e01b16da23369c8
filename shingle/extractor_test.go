package shingle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, opts ...Option) *Extractor {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func TestExtract_Character(t *testing.T) {
	tests := []struct {
		name  string
		width int
		text  string
		want  []string
	}{
		{"sliding window", 3, "abcd", []string{"abc", "bcd"}},
		{"exact width", 3, "abc", []string{"abc"}},
		{"shorter than width", 3, "ab", []string{"ab"}},
		{"empty", 3, "", []string{}},
		{"repeated shingles collapse", 2, "aaaa", []string{"aa"}},
		{"width one", 1, "abca", []string{"a", "b", "c"}},
		{"multibyte runes", 2, "héllo", []string{"ll", "lo", "hé", "él"}},
		{"whitespace is content", 3, "   ", []string{"   "}},
		{"invalid utf8 kept verbatim", 2, "a\xffb", []string{"\xffb", "a\xff"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustNew(t, WithWidth(tt.width))
			got := e.Extract(tt.text)
			assert.ElementsMatch(t, tt.want, got.Slice())
		})
	}
}

func TestExtract_Word(t *testing.T) {
	tests := []struct {
		name  string
		width int
		text  string
		want  []string
	}{
		{"bigrams", 2, "the quick brown fox", []string{"the quick", "quick brown", "brown fox"}},
		{"unigrams", 1, "to be or not to be", []string{"to", "be", "or", "not"}},
		{"collapses whitespace", 2, "  the\tquick\n\nfox ", []string{"the quick", "quick fox"}},
		{"shorter than width", 3, "hello world", []string{"hello world"}},
		{"shorter than width collapses whitespace", 3, " hello \t world\n", []string{"hello world"}},
		{"whitespace only", 2, " \t\n", []string{}},
		{"empty", 2, "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustNew(t, WithWidth(tt.width), WithMode(ModeWord))
			got := e.Extract(tt.text)
			assert.ElementsMatch(t, tt.want, got.Slice())
		})
	}
}

func TestExtract_NoImplicitNormalization(t *testing.T) {
	plain := mustNew(t)
	assert.NotEqual(t, plain.Extract("ABC").Slice(), plain.Extract("abc").Slice())

	folded := mustNew(t, WithCaseFolding())
	assert.Equal(t, folded.Extract("ABC").Slice(), folded.Extract("abc").Slice())
}

func TestExtract_Normalization(t *testing.T) {
	e := mustNew(t, WithNormalization(), WithWidth(2))
	// U+FB01 LATIN SMALL LIGATURE FI decomposes to "fi" under NFKC.
	assert.Equal(t, []string{"fi"}, e.Extract("ﬁ").Slice())
}

func TestExtract_SymbolStripping(t *testing.T) {
	e := mustNew(t, WithSymbolStripping(), WithMode(ModeWord), WithWidth(1))
	got := e.Extract("great game \U0001F600❤️ tonight →")
	assert.ElementsMatch(t, []string{"great", "game", "tonight"}, got.Slice())

	kept := mustNew(t, WithMode(ModeWord), WithWidth(1))
	assert.True(t, kept.Extract("game \U0001F600").Contains("\U0001F600"))
}

func TestExtract_Deterministic(t *testing.T) {
	e := mustNew(t, WithWidth(4))
	text := "near duplicate detection without pairwise comparison"
	assert.Equal(t, e.Extract(text).Slice(), e.Extract(text).Slice())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(WithWidth(0))
	assert.ErrorIs(t, err, ErrInvalidWidth)

	_, err = New(WithWidth(-2))
	assert.ErrorIs(t, err, ErrInvalidWidth)

	_, err = New(WithMode(Mode(9)))
	assert.ErrorIs(t, err, ErrInvalidMode)

	e, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, e.Width())
	assert.Equal(t, ModeCharacter, e.Mode())
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"char", "CHARACTER", "chars"} {
		m, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, ModeCharacter, m)
	}

	m, err := ParseMode("word")
	require.NoError(t, err)
	assert.Equal(t, ModeWord, m)
	assert.Equal(t, "word", m.String())
	assert.Equal(t, "char", ModeCharacter.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())

	_, err = ParseMode("sentence")
	assert.ErrorIs(t, err, ErrInvalidMode)
}
