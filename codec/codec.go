// Package codec centralizes JSON encoding for input records and reports.
//
// Codecs are selected by stable name so the CLI and config files can refer
// to them.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Appender is implemented by codecs that can encode into an existing buffer.
type Appender interface {
	Append(dst []byte, v any) ([]byte, error)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Append encodes v with c and appends the result to dst, using c's Appender
// implementation when it has one.
func Append(c Codec, dst []byte, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	if a, ok := c.(Appender); ok {
		return a.Append(dst, v)
	}
	b, err := c.Marshal(v)
	if err != nil {
		return dst, fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	return append(dst, b...), nil
}
