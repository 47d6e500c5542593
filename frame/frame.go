package frame

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/mat"
)

// Frame is a table of named, position-aligned columns with an integer row
// index. A Frame is not safe for concurrent mutation.
type Frame struct {
	index []int
	names []string
	cols  map[string]Column
}

// New returns a frame with n rows, no columns and the index 0..n-1.
func New(n int) *Frame {
	return &Frame{index: rangeIndex(n), cols: make(map[string]Column)}
}

// FromColumns builds a frame from equally long columns. The index is 0..n-1.
func FromColumns(names []string, cols []Column) (*Frame, error) {
	if len(names) != len(cols) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d names for %d columns", len(names), len(cols))
	}
	n := 0
	if len(cols) > 0 {
		n = cols[0].Len()
	}
	f := New(n)
	for i, name := range names {
		if f.Has(name) {
			return nil, errors.Wrapf(ErrDuplicateColumn, "%q", name)
		}
		if err := f.Set(name, cols[i]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// FromStrings builds a frame with a single string column.
func FromStrings(name string, values []string) *Frame {
	f := New(len(values))
	f.names = []string{name}
	f.cols[name] = NewSeries(values)
	return f
}

func rangeIndex(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.index) }

// Index returns a copy of the row index.
func (f *Frame) Index() []int { return slices.Clone(f.index) }

// SetIndex replaces the row index.
func (f *Frame) SetIndex(index []int) error {
	if len(index) != len(f.index) {
		return errors.Wrapf(ErrLengthMismatch, "index has %d entries for %d rows", len(index), len(f.index))
	}
	f.index = slices.Clone(index)
	return nil
}

// ResetIndex renumbers the rows 0..n-1 in place.
func (f *Frame) ResetIndex() { f.index = rangeIndex(len(f.index)) }

// Names returns the column names in insertion order.
func (f *Frame) Names() []string { return slices.Clone(f.names) }

// Has reports whether the frame has a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the named column.
func (f *Frame) Column(name string) (Column, error) {
	c, ok := f.cols[name]
	if !ok {
		return nil, errors.Wrapf(ErrColumnNotFound, "%q", name)
	}
	return c, nil
}

// Set adds or replaces a column in place.
func (f *Frame) Set(name string, col Column) error {
	if col.Len() != f.Len() {
		return errors.Wrapf(ErrLengthMismatch, "column %q has %d values for %d rows", name, col.Len(), f.Len())
	}
	if !f.Has(name) {
		f.names = append(f.names, name)
	}
	f.cols[name] = col
	return nil
}

// Drop removes columns in place.
func (f *Frame) Drop(names ...string) error {
	for _, name := range names {
		if !f.Has(name) {
			return errors.Wrapf(ErrColumnNotFound, "%q", name)
		}
	}
	for _, name := range names {
		delete(f.cols, name)
	}
	f.names = lo.Without(f.names, names...)
	return nil
}

// DropNulls removes, in place, every row with a null in any of the subset
// columns (all columns when subset is empty). The index keeps its labels.
func (f *Frame) DropNulls(subset ...string) error {
	if len(subset) == 0 {
		subset = f.names
	}
	cols := make([]Column, 0, len(subset))
	for _, name := range subset {
		c, err := f.Column(name)
		if err != nil {
			return err
		}
		cols = append(cols, c)
	}
	keep := make([]int, 0, f.Len())
	for r := 0; r < f.Len(); r++ {
		if !lo.SomeBy(cols, func(c Column) bool { return c.IsNull(r) }) {
			keep = append(keep, r)
		}
	}
	if len(keep) == f.Len() {
		return nil
	}
	f.takeInPlace(keep)
	return nil
}

func (f *Frame) takeInPlace(rows []int) {
	index := make([]int, len(rows))
	for k, r := range rows {
		index[k] = f.index[r]
	}
	for name, c := range f.cols {
		f.cols[name] = c.Take(rows)
	}
	f.index = index
}

// Take returns a new frame holding the given row positions.
func (f *Frame) Take(rows []int) *Frame {
	out := f.Copy()
	out.takeInPlace(rows)
	return out
}

// Copy returns a shallow copy: columns are shared, the column set and index
// are not.
func (f *Frame) Copy() *Frame {
	cols := make(map[string]Column, len(f.cols))
	for k, v := range f.cols {
		cols[k] = v
	}
	return &Frame{index: slices.Clone(f.index), names: slices.Clone(f.names), cols: cols}
}

// Join left-joins other onto f by index label and returns a new frame.
// Rows of f with no matching label in other get nulls. Column names must
// not overlap.
func (f *Frame) Join(other *Frame) (*Frame, error) {
	for _, name := range other.names {
		if f.Has(name) {
			return nil, errors.Wrapf(ErrDuplicateColumn, "%q", name)
		}
	}
	pos := make(map[int]int, other.Len())
	for i, label := range other.index {
		if _, ok := pos[label]; !ok {
			pos[label] = i
		}
	}
	rows := make([]int, f.Len())
	for i, label := range f.index {
		if p, ok := pos[label]; ok {
			rows[i] = p
		} else {
			rows[i] = -1
		}
	}
	out := f.Copy()
	for _, name := range other.names {
		out.names = append(out.names, name)
		out.cols[name] = other.cols[name].Take(rows)
	}
	return out, nil
}

// Get returns a typed view of the named column.
func Get[T any](f *Frame, name string) (*Series[T], error) {
	c, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	s, ok := c.(*Series[T])
	if !ok {
		var zero T
		return nil, errors.Wrapf(ErrColumnType, "column %q is %T, not a series of %T", name, c, zero)
	}
	return s, nil
}

// Float64Matrix converts every column to float64, row-major. Nulls become
// NaN. Values that cannot be converted fail with ErrColumnType.
func (f *Frame) Float64Matrix() ([][]float64, error) {
	out := make([][]float64, f.Len())
	for r := range out {
		out[r] = make([]float64, len(f.names))
	}
	for j, name := range f.names {
		c := f.cols[name]
		if s, ok := c.(*Series[float64]); ok {
			for r := range out {
				if s.IsNull(r) {
					out[r][j] = math.NaN()
				} else {
					out[r][j] = s.values[r]
				}
			}
			continue
		}
		for r := range out {
			if c.IsNull(r) {
				out[r][j] = math.NaN()
				continue
			}
			v, err := cast.ToFloat64E(c.Value(r))
			if err != nil {
				return nil, errors.Wrapf(ErrColumnType, "column %q row %d: %v", name, r, err)
			}
			out[r][j] = v
		}
	}
	return out, nil
}

// Dense returns the frame as a gonum matrix (rows x columns).
func (f *Frame) Dense() (*mat.Dense, error) {
	rows, err := f.Float64Matrix()
	if err != nil {
		return nil, err
	}
	if f.Len() == 0 || len(f.names) == 0 {
		return &mat.Dense{}, nil
	}
	data := make([]float64, 0, f.Len()*len(f.names))
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(f.Len(), len(f.names), data), nil
}

// FromDense builds a float64 frame from a matrix with the given column
// names and index.
func FromDense(m mat.Matrix, names []string, index []int) (*Frame, error) {
	r, c := m.Dims()
	if len(names) != c {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d names for %d columns", len(names), c)
	}
	cols := make([]Column, c)
	for j := 0; j < c; j++ {
		values := make([]float64, r)
		for i := 0; i < r; i++ {
			values[i] = m.At(i, j)
		}
		cols[j] = NewSeries(values)
	}
	f, err := FromColumns(names, cols)
	if err != nil {
		return nil, err
	}
	if f.Len() != r {
		// No columns: keep the row count from the matrix.
		f.index = rangeIndex(r)
	}
	if index != nil {
		if err := f.SetIndex(index); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WithPrefix returns a shallow copy whose column names carry prefix.
func (f *Frame) WithPrefix(prefix string) *Frame {
	out := &Frame{index: slices.Clone(f.index), names: make([]string, len(f.names)), cols: make(map[string]Column, len(f.cols))}
	for i, name := range f.names {
		out.names[i] = prefix + name
		out.cols[prefix+name] = f.cols[name]
	}
	return out
}
