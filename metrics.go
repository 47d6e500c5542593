package molframe

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the prom
// package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordParse is called after each SMILES2Mol call.
	// rows is the number of input rows, failed the number that did not parse,
	// err is nil if successful.
	RecordParse(rows, failed int, duration time.Duration, err error)

	// RecordParseCache is called after each SMILES2Mol call that ran with a
	// parse cache.
	RecordParseCache(hits, misses int)

	// RecordFeaturize is called after each fingerprint or descriptor call.
	// op names the transform, err is nil if successful.
	RecordFeaturize(op string, rows int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordParse(int, int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordParseCache(int, int)                         {}
func (NoopMetricsCollector) RecordFeaturize(string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ParseCount          atomic.Int64
	ParseRows           atomic.Int64
	ParseFailed         atomic.Int64
	ParseErrors         atomic.Int64
	ParseTotalNanos     atomic.Int64
	ParseCacheHits      atomic.Int64
	ParseCacheMisses    atomic.Int64
	FeaturizeCount      atomic.Int64
	FeaturizeRows       atomic.Int64
	FeaturizeErrors     atomic.Int64
	FeaturizeTotalNanos atomic.Int64
}

// RecordParse implements MetricsCollector.
func (b *BasicMetricsCollector) RecordParse(rows, failed int, duration time.Duration, err error) {
	b.ParseCount.Add(1)
	b.ParseTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ParseErrors.Add(1)
		return
	}
	b.ParseRows.Add(int64(rows))
	b.ParseFailed.Add(int64(failed))
}

// RecordParseCache implements MetricsCollector.
func (b *BasicMetricsCollector) RecordParseCache(hits, misses int) {
	b.ParseCacheHits.Add(int64(hits))
	b.ParseCacheMisses.Add(int64(misses))
}

// RecordFeaturize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFeaturize(_ string, rows int, duration time.Duration, err error) {
	b.FeaturizeCount.Add(1)
	b.FeaturizeRows.Add(int64(rows))
	b.FeaturizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FeaturizeErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ParseCount:        b.ParseCount.Load(),
		ParseRows:         b.ParseRows.Load(),
		ParseFailed:       b.ParseFailed.Load(),
		ParseErrors:       b.ParseErrors.Load(),
		ParseCacheHits:    b.ParseCacheHits.Load(),
		ParseCacheMisses:  b.ParseCacheMisses.Load(),
		ParseAvgNanos:     avgNanos(b.ParseTotalNanos.Load(), b.ParseCount.Load()),
		FeaturizeCount:    b.FeaturizeCount.Load(),
		FeaturizeRows:     b.FeaturizeRows.Load(),
		FeaturizeErrors:   b.FeaturizeErrors.Load(),
		FeaturizeAvgNanos: avgNanos(b.FeaturizeTotalNanos.Load(), b.FeaturizeCount.Load()),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ParseCount        int64
	ParseRows         int64
	ParseFailed       int64
	ParseErrors       int64
	ParseCacheHits    int64
	ParseCacheMisses  int64
	ParseAvgNanos     int64
	FeaturizeCount    int64
	FeaturizeRows     int64
	FeaturizeErrors   int64
	FeaturizeAvgNanos int64
}
