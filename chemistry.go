package molframe

import (
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/chem"
	"github.com/hupe1980/molframe/frame"
)

// Operation names used in logs, metrics and RowError.
const (
	OpSMILES2Mol  = "smiles2mol"
	OpMorgan      = "morgan_fingerprint"
	OpDescriptors = "molecular_descriptors"
	OpMACCS       = "maccs_keys_fingerprint"
)

// Transformer applies the chemistry transforms with a fixed toolkit, logger
// and metrics collector. A Transformer is safe for concurrent use; the frames
// passed to it are not.
type Transformer struct {
	opts options
}

// New creates a Transformer and checks that the configured toolkit provides
// every capability the transforms need.
func New(optFns ...Option) (*Transformer, error) {
	o := applyOptions(optFns)
	if err := o.validateProgress(); err != nil {
		return nil, err
	}
	if err := o.validateMorgan(); err != nil {
		return nil, err
	}
	if err := CheckCapabilities(o.toolkit, o.progress); err != nil {
		return nil, err
	}
	o.resetParseCache()
	o.logger.Debug("transformer ready", "toolkit", o.toolkit.Name())
	return &Transformer{opts: o}, nil
}

// MustNew is like New but panics on error.
func MustNew(optFns ...Option) *Transformer {
	t, err := New(optFns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Toolkit returns the configured toolkit.
func (t *Transformer) Toolkit() chem.Toolkit { return t.opts.toolkit }

func (t *Transformer) with(optFns []Option) options {
	o := t.opts
	o.apply(optFns)
	if o.parseCacheSize != t.opts.parseCacheSize || o.toolkit.Name() != t.opts.toolkit.Name() {
		o.resetParseCache()
	}
	return o
}

// SMILES2Mol parses the strings in smilesCol and stores the structures in
// molsCol, mutating df in place. Strings that fail to parse (and null cells)
// become null structures; with drop enabled (the default) those rows are
// removed. The row index is reset to 0..n-1 afterwards in either case.
func (t *Transformer) SMILES2Mol(df *frame.Frame, smilesCol, molsCol string, optFns ...Option) (_ *frame.Frame, err error) {
	o := t.with(optFns)
	start := time.Now()
	log := o.logger.WithOp(OpSMILES2Mol).WithColumn(smilesCol)
	var n, failed, kept, hits, misses int
	defer func() {
		o.metricsCollector.RecordParse(n, failed, time.Since(start), err)
		if o.parseCache != nil {
			o.metricsCollector.RecordParseCache(hits, misses)
		}
		log.LogParse(n, failed, kept, err)
	}()

	if err := o.validateProgress(); err != nil {
		return nil, err
	}
	smiles, err := frame.Get[string](df, smilesCol)
	if err != nil {
		return nil, err
	}

	index := df.Index()
	n = len(index)
	mols := make([]*chem.Mol, n)
	valid := make([]bool, n)

	bar := newProgress(o.progress, o.progressOut, OpSMILES2Mol, n)
	for r := 0; r < n; r++ {
		s, ok := smiles.At(r)
		if !ok {
			failed++
			bar.Step()
			continue
		}
		m, cached, err := o.parse(s)
		if cached {
			hits++
		} else {
			misses++
		}
		if err != nil {
			failed++
			log.LogParseFailure(index[r], s, err)
		} else {
			mols[r], valid[r] = m, true
		}
		bar.Step()
	}
	bar.Finish()

	if err := df.Set(molsCol, frame.NewNullableSeries(mols, valid)); err != nil {
		return nil, err
	}
	if o.dropNulls {
		if err := df.DropNulls(molsCol); err != nil {
			return nil, err
		}
	}
	df.ResetIndex()
	kept = df.Len()
	return df, nil
}

// MorganFingerprint computes a folded Morgan fingerprint per structure and
// returns a new frame with columns "0".."nbits-1" and df's row index.
func (t *Transformer) MorganFingerprint(df *frame.Frame, molsCol string, optFns ...Option) (*frame.Frame, error) {
	o := t.with(optFns)
	if err := o.validateMorgan(); err != nil {
		return nil, err
	}
	radius, nbits, kind := o.radius, o.nbits, o.kind
	return featurize(o, OpMorgan, df, molsCol, bitNames(nbits), func(m *chem.Mol) ([]float64, error) {
		if kind == KindBits {
			fp, err := o.toolkit.MorganFingerprint(m, radius, nbits)
			if err != nil {
				return nil, err
			}
			return fp.ToDense(), nil
		}
		fp, err := o.toolkit.HashedMorganFingerprint(m, radius, nbits)
		if err != nil {
			return nil, err
		}
		return fp.ToDense(), nil
	})
}

// MolecularDescriptors computes the descriptor catalog per structure and
// returns a new frame with one column per descriptor and df's row index.
func (t *Transformer) MolecularDescriptors(df *frame.Frame, molsCol string, optFns ...Option) (*frame.Frame, error) {
	o := t.with(optFns)
	return featurize(o, OpDescriptors, df, molsCol, o.toolkit.DescriptorNames(), o.toolkit.Descriptors)
}

// MACCSKeysFingerprint computes the 167-bit MACCS keys per structure and
// returns a new frame with columns "0".."166" and df's row index.
func (t *Transformer) MACCSKeysFingerprint(df *frame.Frame, molsCol string, optFns ...Option) (*frame.Frame, error) {
	o := t.with(optFns)
	return featurize(o, OpMACCS, df, molsCol, bitNames(chem.MACCSBits), func(m *chem.Mol) ([]float64, error) {
		keys, err := o.toolkit.MACCSKeys(m)
		if err != nil {
			return nil, err
		}
		return keys.ToDense(), nil
	})
}

// featurize maps fn over the structures in molsCol. Any failure aborts the
// whole call; no partial frame is returned.
func featurize(o options, op string, df *frame.Frame, molsCol string, names []string, fn func(*chem.Mol) ([]float64, error)) (_ *frame.Frame, err error) {
	start := time.Now()
	log := o.logger.WithColumn(molsCol)
	n := df.Len()
	defer func() {
		o.metricsCollector.RecordFeaturize(op, n, time.Since(start), err)
		log.LogFeaturize(op, n, len(names), err)
	}()

	mols, err := frame.Get[*chem.Mol](df, molsCol)
	if err != nil {
		return nil, err
	}
	index := df.Index()
	cols := make([][]float64, len(names))
	for j := range cols {
		cols[j] = make([]float64, n)
	}
	for r := 0; r < n; r++ {
		m, ok := mols.At(r)
		if !ok || m == nil {
			return nil, &RowError{Op: op, Row: index[r], cause: ErrNullStructure}
		}
		values, err := fn(m)
		if err != nil {
			return nil, &RowError{Op: op, Row: index[r], cause: err}
		}
		if len(values) != len(names) {
			return nil, &RowError{Op: op, Row: index[r], cause: errors.Newf("toolkit returned %d values, want %d", len(values), len(names))}
		}
		for j, v := range values {
			cols[j][r] = v
		}
	}

	out := frame.New(n)
	for j, name := range names {
		if err := out.Set(name, frame.NewSeries(cols[j])); err != nil {
			return nil, err
		}
	}
	if err := out.SetIndex(index); err != nil {
		return nil, err
	}
	return out, nil
}

func bitNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

var defaultTransformer = sync.OnceValues(func() (*Transformer, error) {
	return New()
})

func withDefault(fn func(t *Transformer) (*frame.Frame, error)) (*frame.Frame, error) {
	t, err := defaultTransformer()
	if err != nil {
		return nil, err
	}
	return fn(t)
}

// SMILES2Mol runs Transformer.SMILES2Mol with the default toolkit.
func SMILES2Mol(df *frame.Frame, smilesCol, molsCol string, optFns ...Option) (*frame.Frame, error) {
	return withDefault(func(t *Transformer) (*frame.Frame, error) {
		return t.SMILES2Mol(df, smilesCol, molsCol, optFns...)
	})
}

// MorganFingerprint runs Transformer.MorganFingerprint with the default toolkit.
func MorganFingerprint(df *frame.Frame, molsCol string, optFns ...Option) (*frame.Frame, error) {
	return withDefault(func(t *Transformer) (*frame.Frame, error) {
		return t.MorganFingerprint(df, molsCol, optFns...)
	})
}

// MolecularDescriptors runs Transformer.MolecularDescriptors with the default toolkit.
func MolecularDescriptors(df *frame.Frame, molsCol string, optFns ...Option) (*frame.Frame, error) {
	return withDefault(func(t *Transformer) (*frame.Frame, error) {
		return t.MolecularDescriptors(df, molsCol, optFns...)
	})
}

// MACCSKeysFingerprint runs Transformer.MACCSKeysFingerprint with the default toolkit.
func MACCSKeysFingerprint(df *frame.Frame, molsCol string, optFns ...Option) (*frame.Frame, error) {
	return withDefault(func(t *Transformer) (*frame.Frame, error) {
		return t.MACCSKeysFingerprint(df, molsCol, optFns...)
	})
}
