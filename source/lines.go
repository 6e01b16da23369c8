package source

import (
	"bufio"
	"io"
	"iter"
	"strings"

	"github.com/hupe1980/neardup"
)

// MaxLineSize bounds a single input line.
const MaxLineSize = 16 << 20

// Lines yields one record per line. The id is the zero-based line number;
// empty lines become empty-text records so numbering stays aligned. The line
// terminator (\n or \r\n) is not part of the text.
func Lines(r io.Reader) iter.Seq2[neardup.Record, error] {
	return func(yield func(neardup.Record, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64<<10), MaxLineSize)

		var id uint64
		for sc.Scan() {
			text := strings.TrimSuffix(sc.Text(), "\r")
			if !yield(neardup.Record{ID: id, Text: text}, nil) {
				return
			}
			id++
		}
		if err := sc.Err(); err != nil {
			yield(neardup.Record{}, err)
		}
	}
}
