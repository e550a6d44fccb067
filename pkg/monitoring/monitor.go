package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// RTE API 调用次数，按版本、方法和返回的错误码统计
	RTECalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rte_calls_total",
			Help: "Total number of SCORM API calls",
		},
		[]string{"version", "method", "error_code"},
	)

	LMSRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_requests_total",
			Help: "Total number of requests sent to the LMS",
		},
		[]string{"operation", "result"},
	)

	LMSRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lms_request_duration_seconds",
			Help:    "Duration of requests sent to the LMS",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"operation"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rte_sessions_active",
			Help: "Number of RTE sessions held in memory",
		},
	)

	initOnce sync.Once
)

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(RTECalls)
		prometheus.MustRegister(LMSRequests)
		prometheus.MustRegister(LMSRequestDuration)
		prometheus.MustRegister(SessionsActive)
	})
}

func ObserveCall(version, method, errorCode string) {
	RTECalls.WithLabelValues(version, method, errorCode).Inc()
}

func ObserveLMSRequest(operation string, ok bool, duration time.Duration) {
	result := "success"
	if !ok {
		result = "failure"
	}
	LMSRequests.WithLabelValues(operation, result).Inc()
	LMSRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
