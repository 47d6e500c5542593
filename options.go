package molframe

import (
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/molframe/chem"
	"github.com/hupe1980/molframe/internal/cache"
)

// FingerprintKind selects the Morgan fingerprint output.
type FingerprintKind string

const (
	// KindCounts emits per-bit environment counts.
	KindCounts FingerprintKind = "counts"
	// KindBits emits 0/1 presence bits.
	KindBits FingerprintKind = "bits"
)

// Defaults used when the corresponding option is not given.
const (
	DefaultRadius = 3
	DefaultNBits  = 2048
)

type options struct {
	toolkit          chem.Toolkit
	logger           *Logger
	metricsCollector MetricsCollector
	progress         ProgressMode
	progressOut      io.Writer
	dropNulls        bool
	radius           int
	nbits            int
	kind             FingerprintKind
	parseCacheSize   int
	parseCache       *cache.LRU[string, parseResult]
}

// parseResult is a cached ParseSMILES result; failures are cached too.
type parseResult struct {
	mol *chem.Mol
	err error
}

// Option configures a Transformer or a single transform call.
//
// Options that do not apply to a call are ignored by it, so a single option
// list can be shared between SMILES2Mol and the featurization calls.
type Option func(*options)

// WithToolkit sets the cheminformatics toolkit.
// If nil is passed, chem.Default is used.
func WithToolkit(tk chem.Toolkit) Option {
	return func(o *options) {
		if tk == nil {
			tk = chem.Default
		}
		o.toolkit = tk
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := molframe.NewJSONLogger(slog.LevelInfo)
//	t, _ := molframe.New(molframe.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &molframe.BasicMetricsCollector{}
//	t, _ := molframe.New(molframe.WithMetricsCollector(metrics))
//	// ... use t ...
//	stats := metrics.GetStats()
//	fmt.Printf("Parsed: %d, failed: %d\n", stats.ParseRows, stats.ParseFailed)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithDropNulls controls whether SMILES2Mol removes rows that did not parse.
// Default: true.
func WithDropNulls(drop bool) Option {
	return func(o *options) {
		o.dropNulls = drop
	}
}

// WithProgress selects the progress display for SMILES2Mol.
// Unknown modes make the call fail with ErrInvalidArgument.
func WithProgress(mode ProgressMode) Option {
	return func(o *options) {
		o.progress = mode
	}
}

// WithProgressWriter sets where progress output goes. Default: os.Stderr.
func WithProgressWriter(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}
		o.progressOut = w
	}
}

// WithRadius sets the Morgan environment radius. Must be >= 0. Default: 3.
func WithRadius(radius int) Option {
	return func(o *options) {
		o.radius = radius
	}
}

// WithNBits sets the Morgan fingerprint length. Must be > 0. Default: 2048.
func WithNBits(nbits int) Option {
	return func(o *options) {
		o.nbits = nbits
	}
}

// WithKind selects counts or bits output for MorganFingerprint.
// Default: KindCounts.
func WithKind(kind FingerprintKind) Option {
	return func(o *options) {
		o.kind = kind
	}
}

// WithParseCache keeps the last size parse results (including failures)
// keyed by SMILES string, so repeated structures are parsed once. On New the
// cache is shared by every call of the Transformer; as a per-call option it
// lives for that call only. Default: 0 (disabled).
func WithParseCache(size int) Option {
	return func(o *options) {
		o.parseCacheSize = size
	}
}

func defaultOptions() options {
	return options{
		toolkit:          chem.Default,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		progress:         ProgressNone,
		progressOut:      os.Stderr,
		dropNulls:        true,
		radius:           DefaultRadius,
		nbits:            DefaultNBits,
		kind:             KindCounts,
	}
}

func (o *options) apply(optFns []Option) {
	for _, fn := range optFns {
		if fn != nil {
			fn(o)
		}
	}
}

func applyOptions(optFns []Option) options {
	o := defaultOptions()
	o.apply(optFns)
	return o
}

func (o *options) resetParseCache() {
	o.parseCache = nil
	if o.parseCacheSize > 0 {
		o.parseCache = cache.NewLRU[string, parseResult](o.parseCacheSize)
	}
}

// parse reports whether the result came from the parse cache.
func (o *options) parse(s string) (*chem.Mol, bool, error) {
	if o.parseCache == nil {
		m, err := o.toolkit.ParseSMILES(s)
		return m, false, err
	}
	if p, ok := o.parseCache.Get(s); ok {
		return p.mol, true, p.err
	}
	m, err := o.toolkit.ParseSMILES(s)
	o.parseCache.Set(s, parseResult{mol: m, err: err})
	return m, false, err
}

func (o *options) validateProgress() error {
	mode, err := ParseProgressMode(string(o.progress))
	if err != nil {
		return err
	}
	o.progress = mode
	return nil
}

func (o *options) validateMorgan() error {
	if o.radius < 0 {
		return invalidArgument("radius must be >= 0, got %d", o.radius)
	}
	if o.nbits <= 0 {
		return invalidArgument("nbits must be > 0, got %d", o.nbits)
	}
	switch o.kind {
	case KindCounts, KindBits:
		return nil
	default:
		return invalidArgument("fingerprint kind must be %q or %q, got %q", KindCounts, KindBits, o.kind)
	}
}
