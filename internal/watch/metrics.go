package watch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tesouraria_collection_fetches_total",
		Help: "Collection fetches issued against the remote store",
	}, []string{"table"})

	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tesouraria_collection_fetch_failures_total",
		Help: "Collection fetches that failed; the prior snapshot is retained",
	}, []string{"table"})

	fetchesCoalesced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tesouraria_collection_fetches_coalesced_total",
		Help: "Refresh requests collapsed into an already in-flight fetch",
	}, []string{"table"})

	staleFetchesDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tesouraria_collection_stale_fetches_discarded_total",
		Help: "Fetch results discarded because a newer fetch had been issued",
	}, []string{"table"})

	feedNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tesouraria_feed_notifications_total",
		Help: "Change-feed notifications received",
	}, []string{"table"})
)
