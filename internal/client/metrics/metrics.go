// Package metrics exposes Prometheus instruments for directory commands and
// login attempts, and an optional /metrics listener.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/dmitrijs2005/tadpole/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tadpole"

type Metrics struct {
	DirectoryCommands *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
	LoginAttempts     *prometheus.CounterVec
	CatalogSize       prometheus.Gauge
	QueueDepth        prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DirectoryCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "directory",
				Name:      "commands_total",
				Help:      "Directory commands by operation and result.",
			},
			[]string{"op", "result"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "directory",
				Name:      "command_duration_seconds",
				Help:      "Directory command latency, queue wait excluded.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"op"},
		),
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "login_attempts_total",
				Help:      "Login attempts by outcome.",
			},
			[]string{"outcome"}, // administrator|user|failed
		),
		CatalogSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "directory",
				Name:      "catalog_size",
				Help:      "Number of records in the latest published snapshot.",
			},
		),
		QueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "directory",
				Name:      "queue_depth",
				Help:      "Commands waiting for the directory worker.",
			},
		),
	}
	reg.MustRegister(m.DirectoryCommands, m.CommandDuration, m.LoginAttempts, m.CatalogSize, m.QueueDepth)

	return m
}

// ObserveCommand runs fn and records its duration and result class.
// A nil receiver just runs fn.
func (m *Metrics) ObserveCommand(op string, fn func() error) error {
	if m == nil {
		return fn()
	}
	start := time.Now()
	err := fn()
	m.CommandDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.DirectoryCommands.WithLabelValues(op, Classify(err)).Inc()
	return err
}

// Login records a login attempt outcome.
func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// Catalog records the size of a freshly published snapshot.
func (m *Metrics) Catalog(size int) {
	if m == nil {
		return
	}
	m.CatalogSize.Set(float64(size))
}

func (m *Metrics) QueueInc() {
	if m != nil {
		m.QueueDepth.Inc()
	}
}

func (m *Metrics) QueueDec() {
	if m != nil {
		m.QueueDepth.Dec()
	}
}

// Classify maps a command error to the result label.
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrValidation):
		return "invalid"
	case errors.Is(err, common.ErrDuplicateUser), errors.Is(err, common.ErrDuplicateIdentifier):
		return "duplicate"
	case errors.Is(err, common.ErrProtectedAccount), errors.Is(err, common.ErrProtectedField):
		return "protected"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, common.ErrStorage):
		return "storage"
	default:
		return "error"
	}
}

// Serve exposes g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "metrics listener starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "metrics shutdown failed", "error", err)
			return err
		}
		return nil
	}
}
