package export

import (
	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/frame"
)

// IndexColumn holds the frame's row index in Arrow and Parquet output.
const IndexColumn = "__index_level_0__"

// ErrUnsupportedColumn is returned for column types with no Arrow mapping.
var ErrUnsupportedColumn = errors.New("unsupported column type")

func arrowType(name string, c frame.Column) (arrow.DataType, error) {
	switch c.(type) {
	case *frame.Series[float64]:
		return arrow.PrimitiveTypes.Float64, nil
	case *frame.Series[int]:
		return arrow.PrimitiveTypes.Int64, nil
	case *frame.Series[string]:
		return arrow.BinaryTypes.String, nil
	case *frame.Series[bool]:
		return arrow.FixedWidthTypes.Boolean, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedColumn, "column %q is %T", name, c)
	}
}

// Schema returns the Arrow schema ToArrow produces for f.
func Schema(f *frame.Frame) (*arrow.Schema, error) {
	fields := []arrow.Field{{Name: IndexColumn, Type: arrow.PrimitiveTypes.Int64}}
	for _, name := range f.Names() {
		if name == IndexColumn {
			return nil, errors.Newf("column name %q is reserved", IndexColumn)
		}
		c, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		dt, err := arrowType(name, c)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{Name: name, Type: dt, Nullable: true})
	}
	return arrow.NewSchema(fields, nil), nil
}

// ToArrow converts f to a record batch. The caller releases the record.
// A nil allocator uses the Go allocator.
func ToArrow(f *frame.Frame, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	schema, err := Schema(f)
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	ib := b.Field(0).(*array.Int64Builder)
	for _, idx := range f.Index() {
		ib.Append(int64(idx))
	}

	for i, name := range f.Names() {
		c, _ := f.Column(name)
		switch s := c.(type) {
		case *frame.Series[float64]:
			fb := b.Field(i + 1).(*array.Float64Builder)
			for r, v := range s.Values() {
				if s.IsNull(r) {
					fb.AppendNull()
				} else {
					fb.Append(v)
				}
			}
		case *frame.Series[int]:
			nb := b.Field(i + 1).(*array.Int64Builder)
			for r, v := range s.Values() {
				if s.IsNull(r) {
					nb.AppendNull()
				} else {
					nb.Append(int64(v))
				}
			}
		case *frame.Series[string]:
			sb := b.Field(i + 1).(*array.StringBuilder)
			for r, v := range s.Values() {
				if s.IsNull(r) {
					sb.AppendNull()
				} else {
					sb.Append(v)
				}
			}
		case *frame.Series[bool]:
			bb := b.Field(i + 1).(*array.BooleanBuilder)
			for r, v := range s.Values() {
				if s.IsNull(r) {
					bb.AppendNull()
				} else {
					bb.Append(v)
				}
			}
		}
	}
	return b.NewRecord(), nil
}

// FromArrow converts a record batch produced by ToArrow back into a frame.
// Without an index column the index is 0..n-1.
func FromArrow(rec arrow.Record) (*frame.Frame, error) {
	names := make([]string, rec.NumCols())
	chunks := make([][]arrow.Array, rec.NumCols())
	for i := range names {
		names[i] = rec.ColumnName(i)
		chunks[i] = []arrow.Array{rec.Column(i)}
	}
	return fromChunks(names, chunks, int(rec.NumRows()))
}

// fromChunks assembles a frame from per-column chunk lists.
func fromChunks(names []string, chunks [][]arrow.Array, n int) (*frame.Frame, error) {
	var (
		index    []int
		colNames []string
		cols     []frame.Column
	)
	for i, name := range names {
		if name == IndexColumn {
			idx, err := int64Values(name, chunks[i], n)
			if err != nil {
				return nil, err
			}
			index = idx
			continue
		}
		c, err := columnFromChunks(name, chunks[i], n)
		if err != nil {
			return nil, err
		}
		colNames = append(colNames, name)
		cols = append(cols, c)
	}

	f := frame.New(n)
	if len(cols) > 0 {
		var err error
		if f, err = frame.FromColumns(colNames, cols); err != nil {
			return nil, err
		}
	}
	if index != nil {
		if err := f.SetIndex(index); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func int64Values(name string, chunks []arrow.Array, n int) ([]int, error) {
	out := make([]int, 0, n)
	for _, ch := range chunks {
		a, ok := ch.(*array.Int64)
		if !ok {
			return nil, errors.Wrapf(ErrUnsupportedColumn, "index column %q is %s", name, ch.DataType())
		}
		for r := 0; r < a.Len(); r++ {
			out = append(out, int(a.Value(r)))
		}
	}
	return out, nil
}

func columnFromChunks(name string, chunks []arrow.Array, n int) (frame.Column, error) {
	if len(chunks) == 0 {
		return frame.NewSeries(make([]float64, n)), nil
	}
	valid := make([]bool, 0, n)
	switch chunks[0].DataType().ID() {
	case arrow.FLOAT64:
		values := make([]float64, 0, n)
		for _, ch := range chunks {
			a := ch.(*array.Float64)
			for r := 0; r < a.Len(); r++ {
				values = append(values, a.Value(r))
				valid = append(valid, a.IsValid(r))
			}
		}
		return frame.NewNullableSeries(values, valid), nil
	case arrow.INT64:
		values := make([]int, 0, n)
		for _, ch := range chunks {
			a := ch.(*array.Int64)
			for r := 0; r < a.Len(); r++ {
				values = append(values, int(a.Value(r)))
				valid = append(valid, a.IsValid(r))
			}
		}
		return frame.NewNullableSeries(values, valid), nil
	case arrow.STRING:
		values := make([]string, 0, n)
		for _, ch := range chunks {
			a := ch.(*array.String)
			for r := 0; r < a.Len(); r++ {
				if a.IsValid(r) {
					values = append(values, a.Value(r))
				} else {
					values = append(values, "")
				}
				valid = append(valid, a.IsValid(r))
			}
		}
		return frame.NewNullableSeries(values, valid), nil
	case arrow.BOOL:
		values := make([]bool, 0, n)
		for _, ch := range chunks {
			a := ch.(*array.Boolean)
			for r := 0; r < a.Len(); r++ {
				values = append(values, a.Value(r))
				valid = append(valid, a.IsValid(r))
			}
		}
		return frame.NewNullableSeries(values, valid), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedColumn, "column %q is %s", name, chunks[0].DataType())
	}
}
