package metrics

import "github.com/prometheus/client_golang/prometheus"

// Listing pipeline metrics.
var (
	ListingRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "listing_run_duration_seconds",
			Help:      "List query pipeline run duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"view"},
	)

	ListingMatchedRecords = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "listing_matched_records",
			Help:      "Number of records retained by filtering per pipeline run",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"view"},
	)
)

// Upload metrics.
var (
	UploadTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_tasks_total",
			Help:      "Upload tasks by terminal status",
		},
		[]string{"status"},
	)

	UploadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Total bytes ingested by upload tasks",
		},
	)

	UploadTasksActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upload_tasks_active",
			Help:      "Upload tasks currently uploading or processing",
		},
	)
)

// Categorizer metrics.
var (
	CategorizerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "categorizer_requests_total",
			Help:      "Total number of categorize requests",
		},
		[]string{"provider", "status"},
	)

	CategorizerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "categorizer_request_duration_seconds",
			Help:      "Categorize request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	CategorizerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "categorizer_cache_total",
			Help:      "Categorizer cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers listing, upload and categorizer metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(ListingRunDuration)
	prometheus.MustRegister(ListingMatchedRecords)
	prometheus.MustRegister(UploadTasksTotal)
	prometheus.MustRegister(UploadBytesTotal)
	prometheus.MustRegister(UploadTasksActive)
	prometheus.MustRegister(CategorizerRequestsTotal)
	prometheus.MustRegister(CategorizerRequestDuration)
	prometheus.MustRegister(CategorizerCacheTotal)
	domainMetricsRegistered = true
}
