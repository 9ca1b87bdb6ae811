package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agentstationhq/station/internal/metrics"
)

// Metrics returns middleware that records request latency per method and
// status code.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			m.RequestDuration.
				WithLabelValues(r.Method, strconv.Itoa(rw.statusCode)).
				Observe(time.Since(start).Seconds())
		})
	}
}
