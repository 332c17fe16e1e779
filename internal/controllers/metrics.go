package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enrich_cache_hits_total",
		Help: "Enrichments served from the local cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enrich_cache_misses_total",
		Help: "Enrichments that fell through to the TMDB API",
	})

	enrichFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enrich_failures_total",
		Help: "Enrichments that failed on the initial details fetch",
	})
)
