package molframe

import (
	"bytes"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/chem"
	"github.com/hupe1980/molframe/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smilesFrame(values ...string) *frame.Frame {
	return frame.FromStrings("smiles", values)
}

func parsed(t *testing.T, values ...string) *frame.Frame {
	t.Helper()
	df, err := SMILES2Mol(smilesFrame(values...), "smiles", "mol")
	require.NoError(t, err)
	return df
}

func TestSMILES2Mol_DropsFailures(t *testing.T) {
	df, err := SMILES2Mol(smilesFrame("CCO", "not-a-smiles", "c1ccccc1"), "smiles", "mol")
	require.NoError(t, err)
	assert.Equal(t, 2, df.Len())
	assert.Equal(t, []int{0, 1}, df.Index())

	mols, err := frame.Get[*chem.Mol](df, "mol")
	require.NoError(t, err)
	assert.Equal(t, 0, mols.NullCount())
	assert.Equal(t, 3, mols.Values()[0].NumAtoms())
	assert.Equal(t, 6, mols.Values()[1].NumAtoms())

	smiles, err := frame.Get[string](df, "smiles")
	require.NoError(t, err)
	assert.Equal(t, []string{"CCO", "c1ccccc1"}, smiles.Values())
}

func TestSMILES2Mol_KeepNulls(t *testing.T) {
	df := smilesFrame("CCO", "C(", "N")
	out, err := SMILES2Mol(df, "smiles", "mol", WithDropNulls(false))
	require.NoError(t, err)
	assert.Same(t, df, out)
	assert.Equal(t, 3, out.Len())

	mols, err := frame.Get[*chem.Mol](out, "mol")
	require.NoError(t, err)
	assert.False(t, mols.IsNull(0))
	assert.True(t, mols.IsNull(1))
	assert.False(t, mols.IsNull(2))
}

func TestSMILES2Mol_ResetsIndexWithoutDrop(t *testing.T) {
	df := smilesFrame("CCO", "CC")
	require.NoError(t, df.SetIndex([]int{10, 20}))
	_, err := SMILES2Mol(df, "smiles", "mol", WithDropNulls(false))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, df.Index())
}

func TestSMILES2Mol_NullInput(t *testing.T) {
	df, err := frame.FromColumns([]string{"smiles"}, []frame.Column{
		frame.NewNullableSeries([]string{"CCO", ""}, []bool{true, false}),
	})
	require.NoError(t, err)
	_, err = SMILES2Mol(df, "smiles", "mol")
	require.NoError(t, err)
	assert.Equal(t, 1, df.Len())
}

func TestSMILES2Mol_ProgressModes(t *testing.T) {
	tests := []struct {
		mode ProgressMode
		want string
	}{
		{"", ""},
		{ProgressNone, ""},
		{ProgressTerminal, "\rsmiles2mol: 1/2\rsmiles2mol: 2/2\n"},
		{ProgressNotebook, "smiles2mol:  50% (1/2)\nsmiles2mol: 100% (2/2)\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var buf bytes.Buffer
			df, err := SMILES2Mol(smilesFrame("CCO", "CC"), "smiles", "mol",
				WithProgress(tt.mode), WithProgressWriter(&buf))
			require.NoError(t, err)
			assert.Equal(t, 2, df.Len())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSMILES2Mol_InvalidProgressLeavesFrameUntouched(t *testing.T) {
	df := smilesFrame("CCO", "bad(")
	out, err := SMILES2Mol(df, "smiles", "mol", WithProgress("fancy"))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, 2, df.Len())
	assert.False(t, df.Has("mol"))
}

func TestSMILES2Mol_ColumnErrors(t *testing.T) {
	_, err := SMILES2Mol(smilesFrame("CCO"), "missing", "mol")
	assert.True(t, errors.Is(err, ErrColumnNotFound))

	df, err := frame.FromColumns([]string{"n"}, []frame.Column{frame.NewSeries([]int{1})})
	require.NoError(t, err)
	_, err = SMILES2Mol(df, "n", "mol")
	assert.True(t, errors.Is(err, ErrColumnType))
}

func TestSMILES2Mol_Metrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	tr, err := New(WithMetricsCollector(mc))
	require.NoError(t, err)

	_, err = tr.SMILES2Mol(smilesFrame("CCO", "C(", "N"), "smiles", "mol")
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.ParseCount)
	assert.Equal(t, int64(3), stats.ParseRows)
	assert.Equal(t, int64(1), stats.ParseFailed)
	assert.Zero(t, stats.ParseErrors)
	assert.Zero(t, stats.ParseCacheHits+stats.ParseCacheMisses)
}

func TestSMILES2Mol_MetricsOnError(t *testing.T) {
	ints, err := frame.FromColumns([]string{"smiles"}, []frame.Column{frame.NewSeries([]int{1})})
	require.NoError(t, err)

	tests := []struct {
		name   string
		df     *frame.Frame
		col    string
		optFns []Option
		want   error
	}{
		{"missing column", smilesFrame("CCO"), "structure", nil, ErrColumnNotFound},
		{"wrong column type", ints, "smiles", nil, ErrColumnType},
		{"unknown progress mode", smilesFrame("CCO"), "smiles", []Option{WithProgress("tqdm")}, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := &BasicMetricsCollector{}
			tr, err := New(WithMetricsCollector(mc))
			require.NoError(t, err)

			_, err = tr.SMILES2Mol(tt.df, tt.col, "mol", tt.optFns...)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			stats := mc.GetStats()
			assert.Equal(t, int64(1), stats.ParseCount)
			assert.Equal(t, int64(1), stats.ParseErrors)
			assert.Zero(t, stats.ParseRows)
		})
	}
}

func TestMorganFingerprint_Bits(t *testing.T) {
	df := parsed(t, "CCO", "not-a-smiles", "c1ccccc1")
	fp, err := MorganFingerprint(df, "mol", WithRadius(2), WithNBits(16), WithKind(KindBits))
	require.NoError(t, err)
	assert.Equal(t, 2, fp.Len())
	assert.Equal(t, df.Index(), fp.Index())
	require.Len(t, fp.Names(), 16)
	assert.Equal(t, "0", fp.Names()[0])
	assert.Equal(t, "15", fp.Names()[15])
	assert.False(t, fp.Has("mol"))

	m, err := fp.Float64Matrix()
	require.NoError(t, err)
	for _, row := range m {
		on := 0
		for _, v := range row {
			assert.Contains(t, []float64{0, 1}, v)
			on += int(v)
		}
		assert.Positive(t, on)
	}
}

func TestMorganFingerprint_Counts(t *testing.T) {
	df := parsed(t, "CCO")
	fp, err := MorganFingerprint(df, "mol", WithRadius(1), WithNBits(64))
	require.NoError(t, err)
	require.Len(t, fp.Names(), 64)

	m, err := fp.Float64Matrix()
	require.NoError(t, err)
	total := 0.0
	for _, v := range m[0] {
		total += v
	}
	// Three atoms, each with a radius-0 and a radius-1 environment.
	assert.Equal(t, 6.0, total)
}

func TestMorganFingerprint_PreservesIndex(t *testing.T) {
	df := parsed(t, "CCO", "CC", "CCC")
	require.NoError(t, df.SetIndex([]int{7, 3, 9}))

	fp, err := MorganFingerprint(df, "mol", WithNBits(8))
	require.NoError(t, err)
	assert.Equal(t, []int{7, 3, 9}, fp.Index())
}

func TestMorganFingerprint_InvalidArguments(t *testing.T) {
	df := parsed(t, "CCO")
	tests := []struct {
		name string
		opts []Option
	}{
		{"NegativeRadius", []Option{WithRadius(-1)}},
		{"ZeroBits", []Option{WithNBits(0)}},
		{"UnknownKind", []Option{WithKind("sparse")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := MorganFingerprint(df, "mol", tt.opts...)
			require.Error(t, err)
			assert.Nil(t, fp)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}
}

func TestMorganFingerprint_RadiusZero(t *testing.T) {
	df := parsed(t, "CC")
	fp, err := MorganFingerprint(df, "mol", WithRadius(0), WithNBits(4), WithKind(KindBits))
	require.NoError(t, err)
	assert.Len(t, fp.Names(), 4)
}

func TestFeaturize_NullStructure(t *testing.T) {
	df, err := SMILES2Mol(smilesFrame("CCO", "C("), "smiles", "mol", WithDropNulls(false))
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() (*frame.Frame, error)
	}{
		{OpMorgan, func() (*frame.Frame, error) { return MorganFingerprint(df, "mol") }},
		{OpDescriptors, func() (*frame.Frame, error) { return MolecularDescriptors(df, "mol") }},
		{OpMACCS, func() (*frame.Frame, error) { return MACCSKeysFingerprint(df, "mol") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.run()
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, ErrNullStructure))

			var re *RowError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, 1, re.Row)
			assert.Equal(t, tt.name, re.Op)
		})
	}
}

func TestFeaturize_ColumnErrors(t *testing.T) {
	df := parsed(t, "CCO")
	_, err := MolecularDescriptors(df, "missing")
	assert.True(t, errors.Is(err, ErrColumnNotFound))
	_, err = MACCSKeysFingerprint(df, "smiles")
	assert.True(t, errors.Is(err, ErrColumnType))
}

func TestMolecularDescriptors(t *testing.T) {
	df := parsed(t, "CCO", "c1ccccc1", "CC(=O)N")
	require.NoError(t, df.SetIndex([]int{4, 5, 6}))

	desc, err := MolecularDescriptors(df, "mol")
	require.NoError(t, err)
	assert.Equal(t, chem.DescriptorNames(), desc.Names())
	assert.Len(t, desc.Names(), 39)
	assert.Equal(t, 3, desc.Len())
	assert.Equal(t, []int{4, 5, 6}, desc.Index())

	rings, err := frame.Get[float64](desc, "NumAromaticRings")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, rings.Values())

	amides, err := frame.Get[float64](desc, "NumAmideBonds")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, amides.Values())
}

func TestMACCSKeysFingerprint(t *testing.T) {
	df := parsed(t, "CCO", "c1ccccc1")
	keys, err := MACCSKeysFingerprint(df, "mol")
	require.NoError(t, err)
	require.Len(t, keys.Names(), chem.MACCSBits)
	assert.Equal(t, strconv.Itoa(chem.MACCSBits-1), keys.Names()[chem.MACCSBits-1])
	assert.Equal(t, df.Index(), keys.Index())

	bit0, err := frame.Get[float64](keys, "0")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, bit0.Values())

	// Key 163 is "6-membered ring".
	ring6, err := frame.Get[float64](keys, "163")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, ring6.Values())
}

func TestFeaturize_Metrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	tr := MustNew(WithMetricsCollector(mc))
	df, err := tr.SMILES2Mol(smilesFrame("CCO", "CC"), "smiles", "mol")
	require.NoError(t, err)

	_, err = tr.MACCSKeysFingerprint(df, "mol")
	require.NoError(t, err)
	_, err = tr.MorganFingerprint(df, "missing")
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.FeaturizeCount)
	assert.Equal(t, int64(1), stats.FeaturizeErrors)
	assert.Equal(t, int64(4), stats.FeaturizeRows)
}

type failingToolkit struct {
	chem.Builtin
}

func (failingToolkit) Descriptors(m *chem.Mol) ([]float64, error) {
	if m.NumAtoms() > 2 {
		return nil, errors.New("boom")
	}
	return chem.Builtin{}.Descriptors(m)
}

func TestFeaturize_ToolkitFailureAbortsBatch(t *testing.T) {
	tr := &Transformer{opts: applyOptions([]Option{WithToolkit(failingToolkit{})})}
	df, err := tr.SMILES2Mol(smilesFrame("C", "CCO"), "smiles", "mol")
	require.NoError(t, err)

	out, err := tr.MolecularDescriptors(df, "mol")
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "boom")

	var re *RowError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 1, re.Row)
}

type countingToolkit struct {
	chem.Builtin
	calls *atomic.Int64
}

func (c countingToolkit) ParseSMILES(s string) (*chem.Mol, error) {
	c.calls.Add(1)
	return c.Builtin.ParseSMILES(s)
}

func TestSMILES2Mol_ParseCache(t *testing.T) {
	calls := &atomic.Int64{}
	tk := countingToolkit{calls: calls}
	mc := &BasicMetricsCollector{}

	tr, err := New(WithToolkit(tk), WithParseCache(8), WithMetricsCollector(mc))
	require.NoError(t, err)
	calls.Store(0)

	df, err := tr.SMILES2Mol(smilesFrame("CCO", "CCO", "C(", "C(", "CCO"), "smiles", "mol")
	require.NoError(t, err)
	assert.Equal(t, 3, df.Len())
	assert.Equal(t, int64(2), calls.Load())
	assert.Equal(t, int64(3), mc.GetStats().ParseCacheHits)
	assert.Equal(t, int64(2), mc.GetStats().ParseCacheMisses)

	mols, err := frame.Get[*chem.Mol](df, "mol")
	require.NoError(t, err)
	assert.Same(t, mols.Values()[0], mols.Values()[2])

	// The cache outlives a single call.
	_, err = tr.SMILES2Mol(smilesFrame("CCO"), "smiles", "mol")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())

	// A per-call size gets a fresh cache.
	_, err = tr.SMILES2Mol(smilesFrame("CCO", "CCO"), "smiles", "mol", WithParseCache(2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), calls.Load())
}

func TestSMILES2Mol_NoParseCache(t *testing.T) {
	calls := &atomic.Int64{}
	tr := &Transformer{opts: applyOptions([]Option{WithToolkit(countingToolkit{calls: calls})})}

	_, err := tr.SMILES2Mol(smilesFrame("CCO", "CCO"), "smiles", "mol")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}
