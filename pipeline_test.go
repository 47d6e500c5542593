package molframe

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Run(t *testing.T) {
	p, err := NewPipeline("smiles", "mol").
		Morgan(WithRadius(2), WithNBits(32), WithKind(KindBits)).
		Descriptors().
		MACCS().
		Build()
	require.NoError(t, err)

	res, err := p.Run(smilesFrame("CCO", "not-a-smiles", "c1ccccc1"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Parsed.Len())
	assert.Len(t, res.Morgan.Names(), 32)
	assert.Len(t, res.Descriptors.Names(), 39)
	assert.Len(t, res.MACCS.Names(), 167)

	joined, err := res.Joined()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, joined.Index())
	assert.Len(t, joined.Names(), 2+32+39+167)
	assert.True(t, joined.Has("smiles"))
	assert.True(t, joined.Has("mol"))
	assert.True(t, joined.Has(MorganPrefix+"31"))
	assert.True(t, joined.Has("TPSA"))
	assert.True(t, joined.Has(MACCSPrefix+"166"))

	features, err := res.Features()
	require.NoError(t, err)
	assert.Len(t, features.Names(), 32+39+167)
	assert.False(t, features.Has("mol"))
}

func TestPipeline_OnlyRequestedSteps(t *testing.T) {
	p := NewPipeline("smiles", "mol").Descriptors().MustBuild()
	res, err := p.Run(smilesFrame("CCO"))
	require.NoError(t, err)
	assert.Nil(t, res.Morgan)
	assert.Nil(t, res.MACCS)
	require.NotNil(t, res.Descriptors)
}

func TestPipeline_KeepNullsFailsFeaturization(t *testing.T) {
	p := NewPipeline("smiles", "mol").DropNulls(false).MACCS().MustBuild()
	_, err := p.Run(smilesFrame("CCO", "C("))
	assert.True(t, errors.Is(err, ErrNullStructure))
}

func TestPipelineBuilder_Immutable(t *testing.T) {
	base := NewPipeline("smiles", "mol")
	withMorgan := base.Morgan(WithNBits(8))
	assert.False(t, base.morgan)
	assert.True(t, withMorgan.morgan)

	a := base.With(WithLogger(nil))
	b := a.With(WithMetricsCollector(nil))
	assert.Len(t, a.options, 1)
	assert.Len(t, b.options, 2)
}

func TestPipelineBuilder_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		builder PipelineBuilder
	}{
		{"EmptySMILESColumn", NewPipeline("", "mol")},
		{"SameColumns", NewPipeline("smiles", "smiles")},
		{"BadProgress", NewPipeline("smiles", "mol").Progress("gui")},
		{"BadMorgan", NewPipeline("smiles", "mol").Morgan(WithNBits(-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.builder.Build()
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}

	assert.Panics(t, func() { NewPipeline("", "").MustBuild() })
}

func TestResult_JoinedCollision(t *testing.T) {
	parsedFrame := frame.FromStrings("TPSA", []string{"x"})
	desc := frame.New(1)
	require.NoError(t, desc.Set("TPSA", frame.NewSeries([]float64{1})))

	_, err := (&Result{Parsed: parsedFrame, Descriptors: desc}).Joined()
	assert.True(t, errors.Is(err, frame.ErrDuplicateColumn))
}
