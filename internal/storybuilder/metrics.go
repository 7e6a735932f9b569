package storybuilder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "story_builder",
			Name:      "loads_total",
			Help:      "Story loads by outcome (ok, new, partial, error).",
		},
		[]string{"outcome"},
	)

	savesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "story_builder",
			Name:      "saves_total",
			Help:      "Story saves by outcome (ok, error).",
		},
		[]string{"outcome"},
	)

	childFetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "story_builder",
			Name:      "child_fetch_failures_total",
			Help:      "Gallery/timeline child fetches that failed during load; the section loads empty.",
		},
		[]string{"kind"},
	)

	cacheResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "story_builder",
			Name:      "published_cache_total",
			Help:      "Published story cache lookups by result (hit, miss, error).",
		},
		[]string{"result"},
	)
)
