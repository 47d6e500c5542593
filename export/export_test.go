package export

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/frame"
	"github.com/hupe1980/molframe/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featureFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := testutil.NewRNG(42).FloatFrame(4, 3, "bit")
	require.NoError(t, f.SetIndex([]int{7, 3, 9, 1}))
	return f
}

func mixedFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromColumns(
		[]string{"x", "n", "smiles", "ok"},
		[]frame.Column{
			frame.NewNullableSeries([]float64{1.5, 0, -2}, []bool{true, false, true}),
			frame.NewSeries([]int{1, 2, 3}),
			frame.NewNullableSeries([]string{"CCO", "", "c1ccccc1"}, []bool{true, false, true}),
			frame.NewSeries([]bool{true, false, true}),
		},
	)
	require.NoError(t, err)
	require.NoError(t, f.SetIndex([]int{5, 6, 8}))
	return f
}

func assertSameFrame(t *testing.T, want, got *frame.Frame) {
	t.Helper()
	require.Equal(t, want.Names(), got.Names())
	require.Equal(t, want.Index(), got.Index())
	for _, name := range want.Names() {
		wc, _ := want.Column(name)
		gc, _ := got.Column(name)
		for r := 0; r < wc.Len(); r++ {
			assert.Equal(t, wc.IsNull(r), gc.IsNull(r), "%s[%d]", name, r)
			if !wc.IsNull(r) {
				assert.Equal(t, wc.Value(r), gc.Value(r), "%s[%d]", name, r)
			}
		}
	}
}

func TestNPY_RoundTrip(t *testing.T) {
	f := featureFrame(t)

	var buf bytes.Buffer
	require.NoError(t, WriteNPY(&buf, f))

	m, err := ReadNPY(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)

	want, err := f.Float64Matrix()
	require.NoError(t, err)
	for i := range want {
		for j := range want[i] {
			assert.Equal(t, want[i][j], m.At(i, j))
		}
	}

	got, err := ReadNPYFrame(bytes.NewReader(buf.Bytes()), f.Names(), f.Index())
	require.NoError(t, err)
	assertSameFrame(t, f, got)
}

func TestNPY_NullsAsNaN(t *testing.T) {
	f, err := frame.FromColumns([]string{"a"}, []frame.Column{
		frame.NewNullableSeries([]float64{1, 2}, []bool{true, false}),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteNPY(&buf, f))
	m, err := ReadNPY(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.True(t, math.IsNaN(m.At(1, 0)))
}

func TestNPY_NonNumeric(t *testing.T) {
	var buf bytes.Buffer
	err := WriteNPY(&buf, frame.FromStrings("smiles", []string{"CCO"}))
	assert.True(t, errors.Is(err, frame.ErrColumnType))
}

func TestArrow_RoundTrip(t *testing.T) {
	f := mixedFrame(t)

	rec, err := ToArrow(f, memory.NewGoAllocator())
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(5), rec.NumCols())
	assert.Equal(t, IndexColumn, rec.ColumnName(0))

	got, err := FromArrow(rec)
	require.NoError(t, err)
	assertSameFrame(t, f, got)
}

func TestArrow_Errors(t *testing.T) {
	f := frame.New(1)
	require.NoError(t, f.Set("mol", frame.NewSeries([]any{nil})))
	_, err := ToArrow(f, nil)
	assert.True(t, errors.Is(err, ErrUnsupportedColumn))

	g := frame.FromStrings(IndexColumn, []string{"x"})
	_, err = ToArrow(g, nil)
	assert.ErrorContains(t, err, "reserved")
}

func TestParquet_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		f    func(t *testing.T) *frame.Frame
	}{
		{"Features", featureFrame},
		{"Mixed", mixedFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.f(t)

			var buf bytes.Buffer
			require.NoError(t, WriteParquet(&buf, want))

			got, err := ReadParquet(context.Background(), bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assertSameFrame(t, want, got)
		})
	}
}

func TestVectorEncoding(t *testing.T) {
	in := []float64{0, 1, -2.5, math.Inf(1), math.MaxFloat64}
	out, err := DecodeVector(EncodeVector(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = DecodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "features.db"))
	require.NoError(t, err)
	defer db.Close()

	f := featureFrame(t)
	require.NoError(t, WriteSQLite(ctx, db, "morgan", f))

	got, err := ReadSQLite(ctx, db, "morgan")
	require.NoError(t, err)
	assertSameFrame(t, f, got)

	// Writing again replaces the table.
	small := testutil.NewRNG(1).FloatFrame(2, 2, "d")
	require.NoError(t, WriteSQLite(ctx, db, "morgan", small))
	got, err = ReadSQLite(ctx, db, "morgan")
	require.NoError(t, err)
	assertSameFrame(t, small, got)
}

func TestSQLite_Empty(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	empty, err := frame.FromColumns([]string{"a", "b"}, []frame.Column{
		frame.NewSeries([]float64{}), frame.NewSeries([]float64{}),
	})
	require.NoError(t, err)
	require.NoError(t, WriteSQLite(ctx, db, "empty", empty))

	got, err := ReadSQLite(ctx, db, "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, []string{"a", "b"}, got.Names())
}

func TestSQLite_InvalidTable(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, WriteSQLite(ctx, db, "x; DROP TABLE y", featureFrame(t)))
	_, err = ReadSQLite(ctx, db, "1abc")
	assert.Error(t, err)
	_, err = ReadSQLite(ctx, db, "missing")
	assert.Error(t, err)
}
