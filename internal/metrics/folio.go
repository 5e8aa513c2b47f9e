package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup and data Prometheus metrics.
var (
	LookupOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_outcomes_total",
			Help:      "Rendered lookup pages by outcome",
		},
		[]string{"outcome"}, // "form" / "document" / "no_match" / "matches"
	)

	PageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_cache_total",
			Help:      "Rendered page cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	TableRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Rows loaded per table at startup",
		},
		[]string{"table"},
	)
)

var registerOnce sync.Once

// RegisterLookupMetrics registers lookup, cache and table metrics. Safe to call more than once.
func RegisterLookupMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(LookupOutcomesTotal)
		prometheus.MustRegister(PageCacheTotal)
		prometheus.MustRegister(TableRows)
	})
}
