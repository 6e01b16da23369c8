// Package shingle turns raw text records into shingle sets, the unit over
// which near-duplicate similarity is measured.
//
// Two modes are supported:
//
//   - ModeCharacter: every run of w consecutive characters (runes), step 1.
//   - ModeWord: every run of w consecutive whitespace-separated tokens, joined
//     by a single space.
//
// A text shorter than w units yields a single shingle holding the whole text;
// an empty text yields the empty set. The text is not normalized unless asked
// for: case folding, NFKC normalization and symbol stripping are opt-in.
// Invalid UTF-8 bytes are kept verbatim inside shingles.
//
//	ex, _ := shingle.New(shingle.WithWidth(5))
//	a := ex.Extract("the quick brown fox")
//	b := ex.Extract("the quick brown fox jumps")
//	fmt.Println(shingle.Jaccard(a, b))
package shingle
