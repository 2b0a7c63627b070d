// Package metrics exports evaluation and fit statistics as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/born-ml/curvefit/internal/autofunc"
	"github.com/born-ml/curvefit/internal/fitting"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "curvefit"

// Evaluation modes used as the "mode" label.
const (
	ModeValues     = "values"
	ModeDerivative = "derivative"
)

// Collector records autofunc evaluations and fit outcomes. It implements
// autofunc.Observer and is safe for concurrent use.
type Collector struct {
	Evaluations *prometheus.CounterVec   // by function and mode
	Errors      *prometheus.CounterVec   // by function and mode
	Duration    *prometheus.HistogramVec // seconds, by mode
	TapeOps     prometheus.Histogram     // recorded operations per derivative evaluation
	Fits        *prometheus.CounterVec   // by solver status
	FitDuration prometheus.Histogram     // seconds
}

var _ autofunc.Observer = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Function evaluations, by function and mode.",
		}, []string{"function", "mode"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_errors_total",
			Help:      "Failed function evaluations, by function and mode.",
		}, []string{"function", "mode"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Wall-clock time of one evaluation.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"mode"}),
		TapeOps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tape_operations",
			Help:      "Operations recorded on the tape per derivative evaluation.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		}),
		Fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fits_total",
			Help:      "Completed fits, by solver status (\"error\" for failed fits).",
		}, []string{"status"}),
		FitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fit_duration_seconds",
			Help:      "Wall-clock time of one successful fit.",
			Buckets:   prometheus.ExponentialBuckets(1e-3, 4, 10),
		}),
	}
	for _, m := range []prometheus.Collector{c.Evaluations, c.Errors, c.Duration, c.TapeOps, c.Fits, c.FitDuration} {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return c, nil
}

// Observe records one evaluation.
func (c *Collector) Observe(ev autofunc.Evaluation) {
	mode := ModeValues
	if ev.Derivative {
		mode = ModeDerivative
		c.TapeOps.Observe(float64(ev.TapeOps))
	}
	c.Evaluations.WithLabelValues(ev.Function, mode).Inc()
	if ev.Err != nil {
		c.Errors.WithLabelValues(ev.Function, mode).Inc()
	}
	c.Duration.WithLabelValues(mode).Observe(ev.Duration.Seconds())
}

// ObserveFit records the outcome of fitting.Fit.
func (c *Collector) ObserveFit(res *fitting.Result, err error) {
	if err != nil || res == nil {
		c.Fits.WithLabelValues("error").Inc()
		return
	}
	c.Fits.WithLabelValues(res.Status.String()).Inc()
	c.FitDuration.Observe(res.Duration.Seconds())
}

// ObserveBatch records every fit of a batch.
func (c *Collector) ObserveBatch(b *fitting.BatchResult) {
	for i, res := range b.Results {
		c.ObserveFit(res, b.Errors[i])
	}
}
