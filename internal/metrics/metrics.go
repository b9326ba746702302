package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okr_tracker_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "okr_tracker_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okr_tracker_mutations_total",
		Help: "Writes against the store by entity, operation and result",
	}, []string{"entity", "op", "result"})

	assistantCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okr_tracker_assistant_calls_total",
		Help: "Assistant completions by result",
	}, []string{"result"})

	assistantDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "okr_tracker_assistant_call_duration_seconds",
		Help:    "Latency of assistant completions",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
	})

	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okr_tracker_logins_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	websocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "okr_tracker_websocket_clients",
		Help: "Connected websocket clients",
	})

	importedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okr_tracker_imported_rows_total",
		Help: "Spreadsheet rows processed by sheet and result",
	}, []string{"sheet", "result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveMutation counts a create, update or delete.
func ObserveMutation(entity, op string, err error) {
	mutationsTotal.WithLabelValues(entity, op, result(err)).Inc()
}

func ObserveAssistantCall(duration time.Duration, err error) {
	assistantCalls.WithLabelValues(result(err)).Inc()
	assistantDuration.Observe(duration.Seconds())
}

func ObserveLogin(ok bool) {
	if ok {
		loginsTotal.WithLabelValues("success").Inc()
		return
	}
	loginsTotal.WithLabelValues("failure").Inc()
}

func SetWebsocketClients(count int) {
	if count < 0 {
		count = 0
	}
	websocketClients.Set(float64(count))
}

func ObserveImportedRow(sheet string, imported bool) {
	if imported {
		importedRows.WithLabelValues(sheet, "imported").Inc()
		return
	}
	importedRows.WithLabelValues(sheet, "skipped").Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// GinMiddleware records every request under its route template so that
// path parameters do not explode label cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
