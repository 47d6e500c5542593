package molframe

import (
	"slices"

	"github.com/hupe1980/molframe/frame"
)

// Column prefixes used by Result.Joined for the bit-indexed feature frames.
const (
	MorganPrefix = "morgan_"
	MACCSPrefix  = "maccs_"
)

// NewPipeline creates a pipeline builder that parses smilesCol into molsCol.
//
// The builder is immutable - each method returns a new builder with the updated configuration.
//
// Example:
//
//	p, err := molframe.NewPipeline("smiles", "mol").
//	    Morgan(molframe.WithRadius(2), molframe.WithNBits(1024)).
//	    Descriptors().
//	    MACCS().
//	    Build()
//	res, err := p.Run(df)
//	features, err := res.Joined()
func NewPipeline(smilesCol, molsCol string) PipelineBuilder {
	return PipelineBuilder{
		smilesCol: smilesCol,
		molsCol:   molsCol,
		dropNulls: true,
		progress:  ProgressNone,
	}
}

// PipelineBuilder is an immutable fluent builder for Pipeline.
type PipelineBuilder struct {
	smilesCol   string
	molsCol     string
	dropNulls   bool
	progress    ProgressMode
	morgan      bool
	morganOpts  []Option
	descriptors bool
	maccs       bool
	options     []Option
}

// DropNulls controls whether rows that fail to parse are removed.
// Default: true.
func (b PipelineBuilder) DropNulls(drop bool) PipelineBuilder {
	b.dropNulls = drop
	return b
}

// Progress selects the progress display for the parse step.
func (b PipelineBuilder) Progress(mode ProgressMode) PipelineBuilder {
	b.progress = mode
	return b
}

// Morgan adds a Morgan fingerprint step configured by opts
// (WithRadius, WithNBits, WithKind).
func (b PipelineBuilder) Morgan(opts ...Option) PipelineBuilder {
	b.morgan = true
	b.morganOpts = slices.Clone(opts)
	return b
}

// Descriptors adds the molecular descriptor step.
func (b PipelineBuilder) Descriptors() PipelineBuilder {
	b.descriptors = true
	return b
}

// MACCS adds the MACCS keys step.
func (b PipelineBuilder) MACCS() PipelineBuilder {
	b.maccs = true
	return b
}

// With adds Transformer options (toolkit, logger, metrics, progress writer).
func (b PipelineBuilder) With(opts ...Option) PipelineBuilder {
	b.options = append(slices.Clone(b.options), opts...)
	return b
}

// Build validates the configuration and creates the Pipeline.
func (b PipelineBuilder) Build() (*Pipeline, error) {
	if b.smilesCol == "" || b.molsCol == "" {
		return nil, invalidArgument("pipeline needs a SMILES column and a structure column")
	}
	if b.smilesCol == b.molsCol {
		return nil, invalidArgument("structure column %q would overwrite the SMILES column", b.molsCol)
	}
	mode, err := ParseProgressMode(string(b.progress))
	if err != nil {
		return nil, err
	}
	t, err := New(b.options...)
	if err != nil {
		return nil, err
	}
	if b.morgan {
		o := t.with(b.morganOpts)
		if err := o.validateMorgan(); err != nil {
			return nil, err
		}
	}
	return &Pipeline{
		t:           t,
		smilesCol:   b.smilesCol,
		molsCol:     b.molsCol,
		dropNulls:   b.dropNulls,
		progress:    mode,
		morgan:      b.morgan,
		morganOpts:  slices.Clone(b.morganOpts),
		descriptors: b.descriptors,
		maccs:       b.maccs,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b PipelineBuilder) MustBuild() *Pipeline {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

// Pipeline parses a SMILES column and runs the configured featurization
// steps on the result.
type Pipeline struct {
	t           *Transformer
	smilesCol   string
	molsCol     string
	dropNulls   bool
	progress    ProgressMode
	morgan      bool
	morganOpts  []Option
	descriptors bool
	maccs       bool
}

// Result holds the parsed frame and one frame per requested step. Steps
// that were not requested are nil.
type Result struct {
	Parsed      *frame.Frame
	Morgan      *frame.Frame
	Descriptors *frame.Frame
	MACCS       *frame.Frame
}

// Run executes the pipeline. df is mutated by the parse step exactly as
// SMILES2Mol does.
func (p *Pipeline) Run(df *frame.Frame) (*Result, error) {
	parsed, err := p.t.SMILES2Mol(df, p.smilesCol, p.molsCol,
		WithDropNulls(p.dropNulls), WithProgress(p.progress))
	if err != nil {
		return nil, err
	}
	res := &Result{Parsed: parsed}
	if p.morgan {
		if res.Morgan, err = p.t.MorganFingerprint(parsed, p.molsCol, p.morganOpts...); err != nil {
			return nil, err
		}
	}
	if p.descriptors {
		if res.Descriptors, err = p.t.MolecularDescriptors(parsed, p.molsCol); err != nil {
			return nil, err
		}
	}
	if p.maccs {
		if res.MACCS, err = p.t.MACCSKeysFingerprint(parsed, p.molsCol); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Joined left-joins every feature frame onto the parsed frame by row index.
// Morgan and MACCS columns are prefixed with MorganPrefix and MACCSPrefix.
func (r *Result) Joined() (*frame.Frame, error) {
	out := r.Parsed.Copy()
	steps := []struct {
		f      *frame.Frame
		prefix string
	}{
		{r.Morgan, MorganPrefix},
		{r.Descriptors, ""},
		{r.MACCS, MACCSPrefix},
	}
	for _, s := range steps {
		if s.f == nil {
			continue
		}
		var err error
		if out, err = out.Join(s.f.WithPrefix(s.prefix)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Features joins only the feature frames, without the parsed columns.
func (r *Result) Features() (*frame.Frame, error) {
	base := frame.New(r.Parsed.Len())
	if err := base.SetIndex(r.Parsed.Index()); err != nil {
		return nil, err
	}
	return (&Result{Parsed: base, Morgan: r.Morgan, Descriptors: r.Descriptors, MACCS: r.MACCS}).Joined()
}
