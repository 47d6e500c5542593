package codec

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/frame"
	"github.com/hupe1980/molframe/internal/hash"
)

var snapshotMagic = []byte("MOLF\x01")

var (
	// ErrUnsupportedColumn is returned for column types snapshots cannot hold.
	ErrUnsupportedColumn = errors.New("unsupported column type")
	// ErrBadSnapshot is returned when snapshot bytes are not recognised.
	ErrBadSnapshot = errors.New("bad snapshot")
)

// Column kinds stored in a snapshot.
const (
	KindFloat64 = "float64"
	KindInt     = "int"
	KindString  = "string"
	KindBool    = "bool"
)

// FrameSnapshot is the codec-neutral form of a frame.
type FrameSnapshot struct {
	Index   []int            `json:"index"`
	Columns []ColumnSnapshot `json:"columns"`
}

// ColumnSnapshot holds one column; exactly one value slice is set.
type ColumnSnapshot struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Float64 []float64 `json:"float64,omitempty"`
	Int     []int     `json:"int,omitempty"`
	String  []string  `json:"string,omitempty"`
	Bool    []bool    `json:"bool,omitempty"`
	Nulls   []int     `json:"nulls,omitempty"`
}

// Snapshot converts f to its codec-neutral form. Float64, int, string and
// bool series are supported; anything else fails with ErrUnsupportedColumn.
func Snapshot(f *frame.Frame) (*FrameSnapshot, error) {
	s := &FrameSnapshot{Index: f.Index(), Columns: make([]ColumnSnapshot, 0, len(f.Names()))}
	for _, name := range f.Names() {
		c, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		cs := ColumnSnapshot{Name: name}
		switch col := c.(type) {
		case *frame.Series[float64]:
			cs.Kind, cs.Float64 = KindFloat64, col.Values()
		case *frame.Series[int]:
			cs.Kind, cs.Int = KindInt, col.Values()
		case *frame.Series[string]:
			cs.Kind, cs.String = KindString, col.Values()
		case *frame.Series[bool]:
			cs.Kind, cs.Bool = KindBool, col.Values()
		default:
			return nil, errors.Wrapf(ErrUnsupportedColumn, "column %q is %T", name, c)
		}
		for r := 0; r < c.Len(); r++ {
			if c.IsNull(r) {
				cs.Nulls = append(cs.Nulls, r)
			}
		}
		s.Columns = append(s.Columns, cs)
	}
	return s, nil
}

// Frame rebuilds the frame described by the snapshot.
func (s *FrameSnapshot) Frame() (*frame.Frame, error) {
	names := make([]string, len(s.Columns))
	cols := make([]frame.Column, len(s.Columns))
	for i, cs := range s.Columns {
		names[i] = cs.Name
		switch cs.Kind {
		case KindFloat64:
			cols[i] = restore(cs.Float64, len(s.Index), cs.Nulls)
		case KindInt:
			cols[i] = restore(cs.Int, len(s.Index), cs.Nulls)
		case KindString:
			cols[i] = restore(cs.String, len(s.Index), cs.Nulls)
		case KindBool:
			cols[i] = restore(cs.Bool, len(s.Index), cs.Nulls)
		default:
			return nil, errors.Wrapf(ErrUnsupportedColumn, "column %q has kind %q", cs.Name, cs.Kind)
		}
	}
	var f *frame.Frame
	if len(cols) == 0 {
		f = frame.New(len(s.Index))
	} else {
		var err error
		if f, err = frame.FromColumns(names, cols); err != nil {
			return nil, err
		}
	}
	if err := f.SetIndex(s.Index); err != nil {
		return nil, err
	}
	return f, nil
}

// restore rebuilds a series; omitempty drops empty slices, so a nil values
// slice stands for n zero values.
func restore[T any](values []T, n int, nulls []int) *frame.Series[T] {
	if values == nil {
		values = make([]T, n)
	}
	s := frame.NewSeries(values)
	for _, r := range nulls {
		s.SetNull(r)
	}
	return s
}

// EncodeFrame writes f as a self-describing snapshot:
// magic, codec name length, codec name, CRC32C of the block (uint32 LE),
// compressed block. The JSON codecs reject non-finite floats.
func EncodeFrame(f *frame.Frame, c Codec, comp Compression) ([]byte, error) {
	if c == nil {
		c = Default
	}
	s, err := Snapshot(f)
	if err != nil {
		return nil, err
	}
	payload, err := c.Marshal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "codec %s marshal", c.Name())
	}
	block, err := Compress(payload, comp)
	if err != nil {
		return nil, err
	}
	name := c.Name()
	if len(name) > 255 {
		return nil, errors.Newf("codec name %q too long", name)
	}
	out := make([]byte, 0, len(snapshotMagic)+1+len(name)+hash.ChecksumSize+len(block))
	out = append(out, snapshotMagic...)
	out = append(out, byte(len(name)))
	out = append(out, name...)
	out = hash.AppendChecksum(out, block)
	return append(out, block...), nil
}

// DecodeFrame reads a snapshot written by EncodeFrame, selecting the codec
// by the name stored in the header.
func DecodeFrame(data []byte) (*frame.Frame, error) {
	if !bytes.HasPrefix(data, snapshotMagic) {
		return nil, errors.Wrap(ErrBadSnapshot, "missing magic")
	}
	data = data[len(snapshotMagic):]
	if len(data) < 1 || len(data) < 1+int(data[0]) {
		return nil, errors.Wrap(ErrBadSnapshot, "truncated header")
	}
	name := string(data[1 : 1+int(data[0])])
	c, ok := ByName(name)
	if !ok {
		return nil, errors.Wrapf(ErrBadSnapshot, "unknown codec %q", name)
	}
	data = data[1+int(data[0]):]
	if len(data) < hash.ChecksumSize {
		return nil, errors.Wrap(ErrBadSnapshot, "truncated checksum")
	}
	block := data[hash.ChecksumSize:]
	if !hash.VerifyChecksum(data[:hash.ChecksumSize], block) {
		return nil, errors.Wrap(ErrBadSnapshot, "checksum mismatch")
	}
	payload, err := Decompress(block)
	if err != nil {
		return nil, err
	}
	var s FrameSnapshot
	if err := c.Unmarshal(payload, &s); err != nil {
		return nil, errors.Wrapf(err, "codec %s unmarshal", name)
	}
	return s.Frame()
}
