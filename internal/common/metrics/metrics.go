// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TriageRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_requests_total",
			Help: "Total number of triage requests by outcome",
		},
		[]string{"status"},
	)

	RouterOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_router_outcomes_total",
			Help: "Router pass outcomes (succeeded, repaired, defaulted)",
		},
		[]string{"outcome"},
	)

	PassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "triage_pass_duration_seconds",
			Help: "Duration of a pipeline pass in seconds",
		},
		[]string{"pass"},
	)

	ContractWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triage_contract_warnings_total",
			Help: "Answers delivered with missing contract sections",
		},
	)

	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_cache_operations_total",
			Help: "Cache operations by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	TokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_tokens_used_total",
			Help: "Token usage reported by providers, by pass",
		},
		[]string{"pass", "kind"},
	)
)
