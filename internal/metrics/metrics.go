package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline step labels
const (
	StepVerify  = "verify"
	StepPersist = "persist"
	StepNotify  = "notify"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// Enquiry pipeline metrics
	enquirySubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enquiry_submissions_total",
			Help: "Enquiry submissions by outcome",
		},
		[]string{"outcome"},
	)

	enquiryStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enquiry_step_duration_seconds",
			Help:    "Duration of each enquiry pipeline step",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"step", "status"},
	)

	notificationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enquiry_notification_failures_total",
			Help: "Stored enquiries whose operator notification failed",
		},
	)

	storeUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enquiry_store_up",
			Help: "1 if the last background ping of the enquiry store succeeded",
		},
	)
)

// RecordSubmission counts a finished submission; outcome is "success" or a failure kind
func RecordSubmission(outcome string) {
	enquirySubmissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStep records how long a pipeline step took
func ObserveStep(step string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	enquiryStepDuration.WithLabelValues(step, status).Observe(time.Since(start).Seconds())
}

// RecordNotificationFailure counts a swallowed notification error
func RecordNotificationFailure() {
	notificationFailuresTotal.Inc()
}

// SetStoreUp publishes the result of the latest store ping
func SetStoreUp(up bool) {
	if up {
		storeUp.Set(1)
		return
	}
	storeUp.Set(0)
}

// Middleware records request counts and latency per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint, status).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
