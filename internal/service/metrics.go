package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outlay_cache_hits_total",
		Help: "Cache reads served without a network call",
	}, []string{"kind"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outlay_cache_misses_total",
		Help: "Cache reads that went to the network",
	}, []string{"kind"})

	cacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outlay_cache_invalidations_total",
		Help: "Cache entries invalidated after mutations",
	}, []string{"kind"})

	staleDiscards = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outlay_cache_stale_discards_total",
		Help: "Fetch results discarded because the key was invalidated mid-flight",
	}, []string{"kind"})
)
