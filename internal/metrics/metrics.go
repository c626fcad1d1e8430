// Package metrics exposes Prometheus collectors for scan parsing and filtering.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK        = "ok"
	ResultMalformed = "malformed"
	ResultDecode    = "decode_error"
	ResultInvalid   = "invalid_range"
	ResultError     = "error"
)

// Metrics holds the collectors recorded by the processing service.
type Metrics struct {
	ScansParsed    *prometheus.CounterVec // by result
	FilterRuns     *prometheus.CounterVec // by result
	ParseDuration  prometheus.Histogram
	FilterDuration prometheus.Histogram
	ScanPoints     prometheus.Histogram
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScansParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spectraviewer_scans_parsed_total",
				Help: "Scan files parsed, by result",
			},
			[]string{"result"},
		),
		FilterRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spectraviewer_filter_runs_total",
				Help: "House filter runs, by result",
			},
			[]string{"result"},
		),
		ParseDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spectraviewer_parse_duration_seconds",
				Help:    "Time spent decoding and parsing one scan",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
		),
		FilterDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spectraviewer_filter_duration_seconds",
				Help:    "Time spent in one house filter run",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		),
		ScanPoints: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spectraviewer_scan_points",
				Help:    "Declared point count of parsed scans",
				Buckets: prometheus.ExponentialBuckets(64, 2, 10),
			},
		),
	}
}
