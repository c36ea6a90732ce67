// Package metrics exposes validation counters for watch mode.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zjrosen/formdom/internal/log"
)

const namespace = "formdom"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	loads       *prometheus.CounterVec
	controls    *prometheus.GaugeVec
	duration    prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Form validity checks by result.",
		}, []string{"result"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "HTML file loads by outcome.",
		}, []string{"outcome"}),
		controls: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "form_controls",
			Help:      "Controls attached to each form at its last check.",
		}, []string{"file", "form"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent checking one form.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.validations, m.loads, m.controls, m.duration)
	return m
}

// ObserveValidation records one form check.
func (m *Metrics) ObserveValidation(file, form string, controls int, valid bool, took time.Duration) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.validations.WithLabelValues(result).Inc()
	m.controls.WithLabelValues(file, form).Set(float64(controls))
	m.duration.Observe(took.Seconds())
}

// ObserveLoad records a load attempt.
func (m *Metrics) ObserveLoad(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.loads.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info(log.CatWatcher, "serving metrics", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
