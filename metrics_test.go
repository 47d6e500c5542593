package molframe

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}
	mc.RecordParse(10, 2, 20*time.Millisecond, nil)
	mc.RecordParse(4, 0, 10*time.Millisecond, nil)
	mc.RecordParse(7, 0, 0, errors.New("missing column"))
	mc.RecordParseCache(3, 11)
	mc.RecordFeaturize(OpMorgan, 8, time.Millisecond, nil)
	mc.RecordFeaturize(OpMACCS, 8, 3*time.Millisecond, errors.New("x"))

	stats := mc.GetStats()
	assert.Equal(t, int64(3), stats.ParseCount)
	assert.Equal(t, int64(14), stats.ParseRows)
	assert.Equal(t, int64(2), stats.ParseFailed)
	assert.Equal(t, int64(1), stats.ParseErrors)
	assert.Equal(t, int64(3), stats.ParseCacheHits)
	assert.Equal(t, int64(11), stats.ParseCacheMisses)
	assert.Equal(t, (10 * time.Millisecond).Nanoseconds(), stats.ParseAvgNanos)
	assert.Equal(t, int64(2), stats.FeaturizeCount)
	assert.Equal(t, int64(16), stats.FeaturizeRows)
	assert.Equal(t, int64(1), stats.FeaturizeErrors)
	assert.Equal(t, (2 * time.Millisecond).Nanoseconds(), stats.FeaturizeAvgNanos)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	stats := (&BasicMetricsCollector{}).GetStats()
	assert.Zero(t, stats.ParseAvgNanos)
	assert.Zero(t, stats.FeaturizeAvgNanos)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.WithColumn("smiles").LogParseFailure(3, "C(", errors.New("unclosed branch"))
	assert.Contains(t, buf.String(), "column=smiles")
	assert.Contains(t, buf.String(), "row=3")

	buf.Reset()
	l.LogParse(10, 2, 8, nil)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "failed=2")

	buf.Reset()
	l.LogParse(10, 0, 0, errors.New("column not found"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "column not found")

	buf.Reset()
	l.WithOp(OpMorgan).LogFeaturize(OpMorgan, 5, 2048, nil)
	assert.Contains(t, buf.String(), "columns=2048")

	buf.Reset()
	l.LogFeaturize(OpMACCS, 5, 167, errors.New("bad"))
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
