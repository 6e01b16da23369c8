package shingle

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultWidth is the shingle width used when none is configured.
const DefaultWidth = 3

var (
	// ErrInvalidWidth is returned when the shingle width is not positive.
	ErrInvalidWidth = errors.New("shingle: width must be positive")

	// ErrInvalidMode is returned for an unknown shingling mode.
	ErrInvalidMode = errors.New("shingle: unknown mode")
)

// Mode selects the unit a shingle is built from.
type Mode int

const (
	// ModeCharacter builds shingles from consecutive characters.
	ModeCharacter Mode = iota
	// ModeWord builds shingles from consecutive whitespace-separated tokens
	// joined by a single space. Runs of whitespace collapse, so a text with
	// fewer than w tokens yields its tokens joined by single spaces, and a
	// whitespace-only text yields the empty set.
	ModeWord
)

// String returns the stable name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeCharacter:
		return "char"
	case ModeWord:
		return "word"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "char", "character", "chars":
		return ModeCharacter, nil
	case "word", "words", "token":
		return ModeWord, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

type options struct {
	width        int
	mode         Mode
	fold         bool
	normalize    bool
	stripSymbols bool
}

// Option configures an Extractor.
type Option func(*options)

// WithWidth sets the shingle width w. Default: 3.
func WithWidth(w int) Option {
	return func(o *options) {
		o.width = w
	}
}

// WithMode sets the shingling mode. Default: ModeCharacter.
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithCaseFolding enables Unicode case folding before shingling.
func WithCaseFolding() Option {
	return func(o *options) {
		o.fold = true
	}
}

// WithNormalization enables NFKC normalization before shingling.
func WithNormalization() Option {
	return func(o *options) {
		o.normalize = true
	}
}

// WithSymbolStripping removes emoji and other pictographic symbols before shingling.
func WithSymbolStripping() Option {
	return func(o *options) {
		o.stripSymbols = true
	}
}

// Extractor converts text into shingle sets. It is immutable and safe for
// concurrent use.
type Extractor struct {
	opts options
}

// New creates an Extractor.
func New(optFns ...Option) (*Extractor, error) {
	o := options{
		width: DefaultWidth,
		mode:  ModeCharacter,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.width <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWidth, o.width)
	}
	if o.mode != ModeCharacter && o.mode != ModeWord {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(o.mode))
	}

	return &Extractor{opts: o}, nil
}

// Width returns the configured shingle width.
func (e *Extractor) Width() int { return e.opts.width }

// Mode returns the configured shingling mode.
func (e *Extractor) Mode() Mode { return e.opts.mode }

// Prepare applies the configured normalization steps to text.
func (e *Extractor) Prepare(text string) string {
	if e.opts.stripSymbols {
		text = strings.Map(dropSymbol, text)
	}
	if e.opts.normalize {
		text = norm.NFKC.String(text)
	}
	if e.opts.fold {
		// Casers carry state and must not be shared between goroutines.
		text = cases.Fold().String(text)
	}
	return text
}

// Extract returns the shingle set of text.
func (e *Extractor) Extract(text string) Set {
	text = e.Prepare(text)
	if e.opts.mode == ModeWord {
		return wordShingles(text, e.opts.width)
	}
	return charShingles(text, e.opts.width)
}

func charShingles(text string, w int) Set {
	if text == "" {
		return Set{}
	}

	// offsets[i] is the byte offset of the i-th character; the final entry is len(text).
	offsets := make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	n := len(offsets)
	offsets = append(offsets, len(text))

	if n < w {
		return NewSet(text)
	}

	s := make(Set, n-w+1)
	for i := 0; i+w <= n; i++ {
		s[text[offsets[i]:offsets[i+w]]] = struct{}{}
	}
	return s
}

func wordShingles(text string, w int) Set {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Set{}
	}
	if len(fields) < w {
		return NewSet(strings.Join(fields, " "))
	}

	s := make(Set, len(fields)-w+1)
	for i := 0; i+w <= len(fields); i++ {
		s[strings.Join(fields[i:i+w], " ")] = struct{}{}
	}
	return s
}

// dropSymbol maps pictographic runes to -1 so strings.Map removes them.
func dropSymbol(r rune) rune {
	switch {
	case unicode.Is(unicode.So, r),
		unicode.Is(unicode.Variation_Selector, r),
		r == '\u200d',              // zero width joiner inside emoji sequences
		r == '\u20e3',              // combining keycap
		r >= 0x2190 && r <= 0x21ff: // arrows
		return -1
	default:
		return r
	}
}
