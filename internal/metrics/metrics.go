// Package metrics exposes Prometheus collectors for list operations and RPCs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded for list operations.
const (
	OutcomeOK        = "ok"
	OutcomeRejected  = "limit_exceeded"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeForbidden = "unauthorized"
	OutcomeError     = "error"
)

// Recorder groups the application's collectors.
type Recorder struct {
	listOps      *prometheus.CounterVec
	listsCreated prometheus.Counter
	rpcDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		listOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feira",
			Name:      "list_operations_total",
			Help:      "Purchase list mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		listsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feira",
			Name:      "purchase_lists_created_total",
			Help:      "Open purchase lists created.",
		}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "feira",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
	if reg != nil {
		reg.MustRegister(r.listOps, r.listsCreated, r.rpcDuration)
	}
	return r
}

// ListOperation counts one list mutation.
func (r *Recorder) ListOperation(op, outcome string) {
	if r == nil {
		return
	}
	r.listOps.WithLabelValues(op, outcome).Inc()
}

// ListCreated counts a newly opened list.
func (r *Recorder) ListCreated() {
	if r == nil {
		return
	}
	r.listsCreated.Inc()
}

// ObserveRPC records the latency of one RPC.
func (r *Recorder) ObserveRPC(procedure, code string, d time.Duration) {
	if r == nil {
		return
	}
	r.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}
