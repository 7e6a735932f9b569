package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "story_client",
			Name:      "requests_total",
			Help:      "Story service calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "story_client",
			Name:      "retries_total",
			Help:      "Story service calls retried after a transport error or 5xx.",
		},
		[]string{"op"},
	)
)
