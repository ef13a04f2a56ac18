package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the settlement counters on the /metrics endpoint.
type Metrics struct {
	SettlementsCommitted *prometheus.CounterVec
	VersionConflicts     *prometheus.CounterVec
	RetriesExhausted     *prometheus.CounterVec
	FatalRejections      *prometheus.CounterVec
	BroadcastFailures    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		SettlementsCommitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amm_settlements_committed_total",
				Help: "Settlements committed, by operation",
			},
			[]string{"operation"}),
		VersionConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amm_version_conflicts_total",
				Help: "Optimistic lock conflicts observed, by operation",
			},
			[]string{"operation"}),
		RetriesExhausted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amm_retries_exhausted_total",
				Help: "Settlements abandoned after the retry budget, by operation",
			},
			[]string{"operation"}),
		FatalRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amm_fatal_rejections_total",
				Help: "Settlements rejected without retry, by error code",
			},
			[]string{"code"}),
		BroadcastFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "amm_broadcast_failures_total",
				Help: "Post-commit publish failures",
			}),
	}

	prometheus.MustRegister(
		m.SettlementsCommitted,
		m.VersionConflicts,
		m.RetriesExhausted,
		m.FatalRejections,
		m.BroadcastFailures,
	)

	return m
}
