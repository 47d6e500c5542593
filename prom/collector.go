// Package prom exports molframe metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c := prom.MustNewCollector(reg)
//	t, err := molframe.New(molframe.WithMetricsCollector(c))
package prom

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements molframe.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency  *prometheus.HistogramVec
	operations *prometheus.CounterVec
	rows       *prometheus.CounterVec
	parseFails prometheus.Counter
	parseCache *prometheus.CounterVec
}

var _ molframe.MetricsCollector = (*Collector)(nil)

// NewCollector creates the metrics and registers them with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "molframe_operation_latency_seconds",
			Help:    "Latency of table conversions",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molframe_operations_total",
			Help: "Total table conversions",
		}, []string{"op", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molframe_rows_total",
			Help: "Total rows processed",
		}, []string{"op"}),
		parseFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "molframe_parse_failures_total",
			Help: "Total SMILES strings that could not be parsed",
		}),
		parseCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "molframe_parse_cache_total",
			Help: "Total parse cache lookups",
		}, []string{"result"}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.operations, c.rows, c.parseFails, c.parseCache} {
		if err := reg.Register(m); err != nil {
			return nil, errors.Wrap(err, "register metrics")
		}
	}
	return c, nil
}

// MustNewCollector is like NewCollector but panics on registration errors.
func MustNewCollector(reg prometheus.Registerer) *Collector {
	c, err := NewCollector(reg)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordParse implements molframe.MetricsCollector.
func (c *Collector) RecordParse(rows, failed int, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(molframe.OpSMILES2Mol, s).Observe(d.Seconds())
	c.operations.WithLabelValues(molframe.OpSMILES2Mol, s).Inc()
	if err == nil {
		c.rows.WithLabelValues(molframe.OpSMILES2Mol).Add(float64(rows))
		c.parseFails.Add(float64(failed))
	}
}

// RecordParseCache implements molframe.MetricsCollector.
func (c *Collector) RecordParseCache(hits, misses int) {
	c.parseCache.WithLabelValues("hit").Add(float64(hits))
	c.parseCache.WithLabelValues("miss").Add(float64(misses))
}

// RecordFeaturize implements molframe.MetricsCollector.
func (c *Collector) RecordFeaturize(op string, rows int, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.operations.WithLabelValues(op, s).Inc()
	if err == nil {
		c.rows.WithLabelValues(op).Add(float64(rows))
	}
}
