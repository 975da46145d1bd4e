package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the app-level Prometheus metrics. Cache-internal counters
// (fetches, coalescing, discarded stale results) live in the watch package.
type Metrics struct {
	SessionsResolved  *prometheus.CounterVec
	SignIns           prometheus.Counter
	SignOuts          prometheus.Counter
	EntriesRecorded   prometheus.Counter
	EntriesDeleted    prometheus.Counter
	TreasurersCreated prometheus.Counter
}

// New creates and registers all app-level metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		SessionsResolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tesouraria_sessions_resolved_total",
			Help: "Initial session probes resolved, by outcome (present, absent, fail_closed)",
		}, []string{"outcome"}),
		SignIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tesouraria_sign_ins_total",
			Help: "Successful sign-ins",
		}),
		SignOuts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tesouraria_sign_outs_total",
			Help: "Explicit sign-outs",
		}),
		EntriesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tesouraria_entries_recorded_total",
			Help: "Ledger entries accepted by the remote store",
		}),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tesouraria_entries_deleted_total",
			Help: "Ledger entries deleted from the remote store",
		}),
		TreasurersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tesouraria_treasurers_created_total",
			Help: "Treasurer directory rows created",
		}),
	}
}
