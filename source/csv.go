package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/hupe1980/neardup"
)

// ErrMissingColumn is returned when a row is too short for a configured column.
var ErrMissingColumn = errors.New("source: missing column")

type csvOptions struct {
	idColumn int
	header   bool
	comma    rune
}

// CSVOption configures CSV.
type CSVOption func(*csvOptions)

// WithIDColumn reads record ids from column i instead of numbering rows.
func WithIDColumn(i int) CSVOption {
	return func(o *csvOptions) {
		o.idColumn = i
	}
}

// WithHeader skips the first row.
func WithHeader() CSVOption {
	return func(o *csvOptions) {
		o.header = true
	}
}

// WithComma sets the field delimiter. Default: ','.
func WithComma(r rune) CSVOption {
	return func(o *csvOptions) {
		o.comma = r
	}
}

// CSV yields the text of column from every row. Without WithIDColumn the
// id is the zero-based data row number.
func CSV(r io.Reader, column int, opts ...CSVOption) iter.Seq2[neardup.Record, error] {
	o := csvOptions{idColumn: -1, comma: ','}
	for _, fn := range opts {
		fn(&o)
	}

	return func(yield func(neardup.Record, error) bool) {
		cr := csv.NewReader(r)
		cr.Comma = o.comma
		cr.FieldsPerRecord = -1
		cr.ReuseRecord = true

		if o.header {
			if _, err := cr.Read(); err != nil {
				if !errors.Is(err, io.EOF) {
					yield(neardup.Record{}, err)
				}
				return
			}
		}

		var row uint64
		for {
			fields, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(neardup.Record{}, err)
				return
			}

			rec, err := csvRecord(fields, row, column, o.idColumn)
			if !yield(rec, err) || err != nil {
				return
			}
			row++
		}
	}
}

func csvRecord(fields []string, row uint64, column, idColumn int) (neardup.Record, error) {
	if column < 0 || column >= len(fields) {
		return neardup.Record{}, fmt.Errorf("%w: text column %d in row %d", ErrMissingColumn, column, row)
	}
	rec := neardup.Record{ID: row, Text: fields[column]}

	if idColumn >= 0 {
		if idColumn >= len(fields) {
			return neardup.Record{}, fmt.Errorf("%w: id column %d in row %d", ErrMissingColumn, idColumn, row)
		}
		id, err := strconv.ParseUint(fields[idColumn], 10, 64)
		if err != nil {
			return neardup.Record{}, fmt.Errorf("source: row %d: invalid id: %w", row, err)
		}
		rec.ID = id
	}
	return rec, nil
}
