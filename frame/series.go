package frame

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Column is a nullable sequence of values aligned with the rows of a Frame.
type Column interface {
	// Len returns the number of values.
	Len() int
	// IsNull reports whether value i is missing.
	IsNull(i int) bool
	// Value returns value i, or nil when it is null.
	Value(i int) any
	// Take returns a new column holding the values at the given positions.
	// A negative position yields a null value.
	Take(rows []int) Column
}

// Series is a typed Column with a null mask.
type Series[T any] struct {
	values []T
	nulls  *roaring.Bitmap
}

var _ Column = (*Series[int])(nil)

// NewSeries returns a series with no nulls. The slice is not copied.
func NewSeries[T any](values []T) *Series[T] {
	return &Series[T]{values: values, nulls: roaring.New()}
}

// NewNullableSeries returns a series where valid[i] == false marks a null.
func NewNullableSeries[T any](values []T, valid []bool) *Series[T] {
	s := NewSeries(values)
	for i, ok := range valid {
		if !ok {
			s.nulls.Add(uint32(i))
		}
	}
	return s
}

// Len implements Column.
func (s *Series[T]) Len() int { return len(s.values) }

// IsNull implements Column.
func (s *Series[T]) IsNull(i int) bool { return s.nulls.Contains(uint32(i)) }

// NullCount returns the number of null values.
func (s *Series[T]) NullCount() int { return int(s.nulls.GetCardinality()) }

// Value implements Column.
func (s *Series[T]) Value(i int) any {
	if s.IsNull(i) {
		return nil
	}
	return s.values[i]
}

// At returns value i and whether it is present.
func (s *Series[T]) At(i int) (T, bool) {
	if s.IsNull(i) {
		var zero T
		return zero, false
	}
	return s.values[i], true
}

// Values returns the underlying values. Null positions hold the zero value
// or whatever was stored there.
func (s *Series[T]) Values() []T { return s.values }

// SetNull marks value i as missing.
func (s *Series[T]) SetNull(i int) { s.nulls.Add(uint32(i)) }

// Take implements Column.
func (s *Series[T]) Take(rows []int) Column {
	out := &Series[T]{values: make([]T, len(rows)), nulls: roaring.New()}
	for k, r := range rows {
		if r < 0 || s.IsNull(r) {
			out.nulls.Add(uint32(k))
			continue
		}
		out.values[k] = s.values[r]
	}
	return out
}
