package frame

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Frame {
	t.Helper()
	f, err := FromColumns(
		[]string{"name", "score"},
		[]Column{
			NewSeries([]string{"a", "b", "c", "d"}),
			NewNullableSeries([]float64{1, 0, 3, 4}, []bool{true, false, true, true}),
		},
	)
	require.NoError(t, err)
	return f
}

func TestSeries(t *testing.T) {
	s := NewNullableSeries([]int{1, 2, 3}, []bool{true, false, true})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, s.NullCount())
	assert.True(t, s.IsNull(1))
	assert.Nil(t, s.Value(1))
	assert.Equal(t, 3, s.Value(2))

	v, ok := s.At(0)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = s.At(1)
	assert.False(t, ok)

	taken := s.Take([]int{2, 1, -1}).(*Series[int])
	assert.Equal(t, []int{3, 0, 0}, taken.Values())
	assert.False(t, taken.IsNull(0))
	assert.True(t, taken.IsNull(1))
	assert.True(t, taken.IsNull(2))

	s.SetNull(0)
	assert.Equal(t, 2, s.NullCount())
}

func TestFromColumns(t *testing.T) {
	f := sample(t)
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, []int{0, 1, 2, 3}, f.Index())
	assert.Equal(t, []string{"name", "score"}, f.Names())

	_, err := FromColumns([]string{"a", "b"}, []Column{NewSeries([]int{1}), NewSeries([]int{1, 2})})
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = FromColumns([]string{"a", "a"}, []Column{NewSeries([]int{1}), NewSeries([]int{1})})
	assert.True(t, errors.Is(err, ErrDuplicateColumn))

	_, err = FromColumns([]string{"a"}, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestFrame_SetAndDrop(t *testing.T) {
	f := sample(t)
	require.NoError(t, f.Set("flag", NewSeries([]bool{true, false, true, false})))
	assert.Equal(t, []string{"name", "score", "flag"}, f.Names())

	// Replacing keeps the position.
	require.NoError(t, f.Set("name", NewSeries([]string{"w", "x", "y", "z"})))
	assert.Equal(t, []string{"name", "score", "flag"}, f.Names())

	err := f.Set("short", NewSeries([]int{1}))
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	require.NoError(t, f.Drop("flag"))
	assert.False(t, f.Has("flag"))
	assert.True(t, errors.Is(f.Drop("missing"), ErrColumnNotFound))
}

func TestFrame_DropNullsAndResetIndex(t *testing.T) {
	f := sample(t)
	require.NoError(t, f.DropNulls("score"))
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, []int{0, 2, 3}, f.Index())

	names, err := Get[string](f, "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, names.Values())

	f.ResetIndex()
	assert.Equal(t, []int{0, 1, 2}, f.Index())

	assert.True(t, errors.Is(f.DropNulls("missing"), ErrColumnNotFound))
}

func TestFrame_DropNullsAllColumns(t *testing.T) {
	f := sample(t)
	require.NoError(t, f.DropNulls())
	assert.Equal(t, 3, f.Len())
}

func TestFrame_SetIndex(t *testing.T) {
	f := sample(t)
	require.NoError(t, f.SetIndex([]int{10, 11, 12, 13}))
	assert.Equal(t, []int{10, 11, 12, 13}, f.Index())
	assert.True(t, errors.Is(f.SetIndex([]int{1}), ErrLengthMismatch))
}

func TestFrame_Join(t *testing.T) {
	left := sample(t)
	require.NoError(t, left.SetIndex([]int{5, 6, 7, 8}))

	right := New(3)
	require.NoError(t, right.Set("extra", NewSeries([]int{60, 80, 99})))
	require.NoError(t, right.SetIndex([]int{6, 8, 100}))

	joined, err := left.Join(right)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 7, 8}, joined.Index())
	assert.Equal(t, []string{"name", "score", "extra"}, joined.Names())

	extra, err := Get[int](joined, "extra")
	require.NoError(t, err)
	assert.True(t, extra.IsNull(0))
	assert.Equal(t, 60, extra.Value(1))
	assert.True(t, extra.IsNull(2))
	assert.Equal(t, 80, extra.Value(3))

	// The source frame is untouched.
	assert.False(t, left.Has("extra"))

	_, err = left.Join(left)
	assert.True(t, errors.Is(err, ErrDuplicateColumn))
}

func TestGet_WrongType(t *testing.T) {
	f := sample(t)
	_, err := Get[int](f, "name")
	assert.True(t, errors.Is(err, ErrColumnType))
	_, err = Get[int](f, "missing")
	assert.True(t, errors.Is(err, ErrColumnNotFound))
}

func TestFrame_Float64Matrix(t *testing.T) {
	f, err := FromColumns(
		[]string{"a", "b"},
		[]Column{
			NewNullableSeries([]float64{1.5, 0}, []bool{true, false}),
			NewSeries([]int{2, 3}),
		},
	)
	require.NoError(t, err)

	m, err := f.Float64Matrix()
	require.NoError(t, err)
	assert.Equal(t, 1.5, m[0][0])
	assert.True(t, math.IsNaN(m[1][0]))
	assert.Equal(t, []float64{2, 3}, []float64{m[0][1], m[1][1]})

	d, err := f.Dense()
	require.NoError(t, err)
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 3.0, d.At(1, 1))

	_, err = sample(t).Float64Matrix()
	assert.True(t, errors.Is(err, ErrColumnType))
}

func TestFromDense(t *testing.T) {
	f, err := FromColumns([]string{"x", "y"}, []Column{NewSeries([]float64{1, 2}), NewSeries([]float64{3, 4})})
	require.NoError(t, err)
	d, err := f.Dense()
	require.NoError(t, err)

	back, err := FromDense(d, []string{"x", "y"}, []int{7, 9})
	require.NoError(t, err)
	assert.Equal(t, []int{7, 9}, back.Index())
	y, err := Get[float64](back, "y")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, y.Values())

	_, err = FromDense(d, []string{"x"}, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestCSV_RoundTrip(t *testing.T) {
	in := "smiles,label\nCCO,ethanol\n,missing\nc1ccccc1,benzene\n"
	f, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, []string{"smiles", "label"}, f.Names())

	smiles, err := Get[string](f, "smiles")
	require.NoError(t, err)
	assert.True(t, smiles.IsNull(1))

	var buf bytes.Buffer
	require.NoError(t, f.WriteCSV(&buf))
	assert.Equal(t, ",smiles,label\n0,CCO,ethanol\n1,,missing\n2,c1ccccc1,benzene\n", buf.String())
}

func TestReadCSV_Empty(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestFrame_WithPrefix(t *testing.T) {
	f := sample(t)
	p := f.WithPrefix("x_")
	assert.Equal(t, []string{"x_name", "x_score"}, p.Names())
	assert.Equal(t, f.Index(), p.Index())
	assert.True(t, f.Has("name"))
}
