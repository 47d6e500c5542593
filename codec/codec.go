// Package codec centralizes frame snapshot encoding.
//
// Codec selection is a breaking-change boundary: snapshots store the codec
// name in their header, so bytes written with one codec are always decoded
// with the same one.
package codec

import "github.com/cockroachdb/errors"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// This is used by the self-describing snapshot format, which stores the
// codec name in its header.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(errors.Wrapf(err, "codec %s marshal failed", c.Name()))
	}
	return b
}
