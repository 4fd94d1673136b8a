package metrics

import "github.com/prometheus/client_golang/prometheus"

// Agent and provider Prometheus metrics.
var (
	AgentCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopagent",
			Name:      "agent_calls_total",
			Help:      "Total number of agent entry point calls",
		},
		[]string{"agent", "operation", "status"},
	)

	AgentCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopagent",
			Name:      "agent_call_duration_seconds",
			Help:      "Agent entry point duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"agent", "operation"},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopagent",
			Name:      "llm_requests_total",
			Help:      "Total number of text generation and embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopagent",
			Name:      "llm_request_duration_seconds",
			Help:      "Provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopagent",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CoordinatorDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopagent",
			Name:      "coordinator_degraded_total",
			Help:      "Composite queries answered without a secondary source",
		},
		[]string{"flow", "source"},
	)
)

var agentMetricsRegistered bool

// RegisterAgentMetrics registers agent and provider metrics. Must be called once from main.
func RegisterAgentMetrics() {
	if agentMetricsRegistered {
		return
	}
	prometheus.MustRegister(AgentCallsTotal)
	prometheus.MustRegister(AgentCallDuration)
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(CoordinatorDegradedTotal)
	agentMetricsRegistered = true
}
