package api

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MetricRequests counts HTTP requests by route and status code
	MetricRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "palette_api_requests_total",
		Help: "Total HTTP requests by route and status code",
	}, []string{"route", "code"})

	// MetricAuthFailures counts rejected signups and logins by reason
	MetricAuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "palette_api_auth_failures_total",
		Help: "Total authentication failures by reason",
	}, []string{"reason"})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// instrument counts every request served by h under route.
func instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		MetricRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	}
}
