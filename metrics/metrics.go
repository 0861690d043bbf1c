package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// SubmissionsTotal counts submitted reports by persistence result (ok, remote_error).
	SubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canal",
		Subsystem: "reports",
		Name:      "submissions_total",
		Help:      "Total number of submitted reports, labeled by remote persistence result.",
	}, []string{"result"})

	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canal",
		Subsystem: "notify",
		Name:      "sent_total",
		Help:      "Total number of report notifications, labeled by result.",
	}, []string{"result"})

	ClassificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canal",
		Subsystem: "classify",
		Name:      "requests_total",
		Help:      "Total number of AI classification attempts, labeled by result.",
	}, []string{"result"})

	// StoreFallbackTotal counts reads served from the local snapshot.
	StoreFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canal",
		Subsystem: "store",
		Name:      "fallback_total",
		Help:      "Total number of store reads served from the local cache, labeled by operation.",
	}, []string{"op"})

	ResyncTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canal",
		Subsystem: "dashboard",
		Name:      "resync_total",
		Help:      "Total number of dashboard collection refreshes, labeled by result.",
	}, []string{"result"})

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canal",
		Subsystem: "admin",
		Name:      "logins_total",
		Help:      "Total number of admin PIN checks, labeled by result.",
	}, []string{"result"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canal",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "canal",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Register registers the service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			SubmissionsTotal,
			NotificationsTotal,
			ClassificationsTotal,
			StoreFallbackTotal,
			ResyncTotal,
			LoginsTotal,
			HTTPRequestsTotal,
			HTTPRequestDuration,
		)
	})
}

// Result maps an error to the "ok"/"error" label used by the counters above.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
