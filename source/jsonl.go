package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/hupe1980/neardup"
	"github.com/hupe1980/neardup/codec"
)

// ErrMissingField is returned when a JSON object lacks the text field.
var ErrMissingField = errors.New("source: missing field")

// JSONLines yields records from newline-delimited JSON objects decoded with
// codec.Default. textField names the string field holding the text. idField
// may name a numeric or decimal-string id field; when empty, ids are line
// numbers. Blank lines are skipped.
func JSONLines(r io.Reader, textField, idField string) iter.Seq2[neardup.Record, error] {
	return JSONLinesWithCodec(r, codec.Default, textField, idField)
}

// JSONLinesWithCodec is JSONLines with an explicit codec.
func JSONLinesWithCodec(r io.Reader, c codec.Codec, textField, idField string) iter.Seq2[neardup.Record, error] {
	return func(yield func(neardup.Record, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64<<10), MaxLineSize)

		var line uint64
		for sc.Scan() {
			data := bytes.TrimSpace(sc.Bytes())
			if len(data) > 0 {
				rec, err := decodeObject(c, data, line, textField, idField)
				if !yield(rec, err) || err != nil {
					return
				}
			}
			line++
		}
		if err := sc.Err(); err != nil {
			yield(neardup.Record{}, err)
		}
	}
}

// rawObject keeps field values undecoded until the configured fields are known.
type rawObject map[string]rawValue

type rawValue []byte

func (v *rawValue) UnmarshalJSON(data []byte) error {
	*v = append((*v)[:0], data...)
	return nil
}

func decodeObject(c codec.Codec, data []byte, line uint64, textField, idField string) (neardup.Record, error) {
	var obj rawObject
	if err := c.Unmarshal(data, &obj); err != nil {
		return neardup.Record{}, fmt.Errorf("source: line %d: %w", line, err)
	}

	raw, ok := obj[textField]
	if !ok {
		return neardup.Record{}, fmt.Errorf("%w: %q on line %d", ErrMissingField, textField, line)
	}
	var text string
	if err := c.Unmarshal(raw, &text); err != nil {
		return neardup.Record{}, fmt.Errorf("source: line %d: field %q: %w", line, textField, err)
	}

	rec := neardup.Record{ID: line, Text: text}
	if idField == "" {
		return rec, nil
	}

	raw, ok = obj[idField]
	if !ok {
		return neardup.Record{}, fmt.Errorf("%w: %q on line %d", ErrMissingField, idField, line)
	}
	id, err := parseID(c, raw)
	if err != nil {
		return neardup.Record{}, fmt.Errorf("source: line %d: field %q: %w", line, idField, err)
	}
	rec.ID = id
	return rec, nil
}

func parseID(c codec.Codec, raw []byte) (uint64, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := c.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseUint(s, 10, 64)
	}
	return strconv.ParseUint(string(raw), 10, 64)
}
