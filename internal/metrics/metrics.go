package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registration metrics
	ProcessorsRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_processors_registered_total",
			Help: "The total number of processor registrations",
		},
		[]string{"role", "mime_type"},
	)

	TransformersRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_transformers_registered_total",
			Help: "The total number of transformer registrations",
		},
		[]string{"from", "to"},
	)

	ReducersRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_reducers_registered_total",
			Help: "The total number of bundle metadata reducer registrations",
		},
		[]string{"mime_type"},
	)

	// Negotiation metrics
	TransformResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_transform_resolutions_total",
			Help: "The total number of transform type resolutions",
		},
		[]string{"outcome"},
	)

	// Bundle fold metrics
	BundleReductions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_bundle_reductions_total",
			Help: "The total number of bundle metadata folds",
		},
		[]string{"outcome"},
	)

	BundleReductionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forge_bundle_reduction_duration_seconds",
			Help:    "Time spent folding bundle metadata",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Cache store metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_cache_hits_total",
			Help: "The total number of compiled-output cache hits",
		},
		[]string{"store"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_cache_misses_total",
			Help: "The total number of compiled-output cache misses",
		},
		[]string{"store"},
	)
)
