package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/contour/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by checker lifecycle events.
type Metrics struct {
	Validations  *prometheus.CounterVec
	Compilations *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contour_validations_total",
				Help: "Total number of validations by schema and result",
			},
			[]string{"schema", "result"},
		),
		Compilations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contour_compilations_total",
				Help: "Total number of schema compilations by schema and result",
			},
			[]string{"schema", "result"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contour_validation_duration_seconds",
				Help:    "Duration of validations",
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
			},
			[]string{"schema"},
		),
	}
	reg.MustRegister(m.Validations, m.Compilations, m.Duration)
	return m
}

// Hooks returns lifecycle hooks that record metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompile: func(_ context.Context, e *domain.CompileEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			m.Compilations.WithLabelValues(e.Schema, result).Inc()
		},
		OnValidate: func(_ context.Context, e *domain.ValidateEvent) {
			result := "pass"
			if !e.Valid {
				result = "fail"
			}
			m.Validations.WithLabelValues(e.Schema, result).Inc()
			m.Duration.WithLabelValues(e.Schema).Observe(e.Duration.Seconds())
		},
	}
}

// LogHooks returns lifecycle hooks that log every event at debug level,
// and rejected schemas at warn level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompile: func(ctx context.Context, e *domain.CompileEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "compile", "schema", e.Schema, "error", e.Err)
				return
			}
			logger.DebugContext(ctx, "compile", "schema", e.Schema)
		},
		OnValidate: func(ctx context.Context, e *domain.ValidateEvent) {
			logger.DebugContext(ctx, "validate",
				"schema", e.Schema,
				"valid", e.Valid,
				"duration", e.Duration,
			)
		},
	}
}
