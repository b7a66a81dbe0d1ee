// Package metrics exposes prometheus collectors for visibility decisions and
// follow-graph mutations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	VisibilityDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "curio_visibility_decisions_total",
		Help: "Single-instance visibility decisions by resource and outcome",
	}, []string{"resource", "outcome"})

	FollowMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "curio_follow_mutations_total",
		Help: "Follow graph mutations by operation and outcome",
	}, []string{"op", "outcome"})
)

func init() {
	prometheus.MustRegister(VisibilityDecisions, FollowMutations)
}

// ObserveDecision records one allow/deny outcome for a resource kind.
func ObserveDecision(resource string, allowed bool) {
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	VisibilityDecisions.WithLabelValues(resource, outcome).Inc()
}

// StartServer serves /metrics on addr in the background. Empty addr disables it.
func StartServer(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() { _ = http.ListenAndServe(addr, mux) }()
}
