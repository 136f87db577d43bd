package middleware

import (
	"net/http"
	"strconv"

	"github.com/heartmarshall/caseflow-backend/internal/metrics"
)

// Metrics counts requests by method, chi route pattern and status.
// Unmatched routes are counted under "unmatched" to bound label cardinality.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			route := routePattern(r)
			if route == "" {
				route = "unmatched"
			}
			m.IncrementHTTPRequest(r.Method, route, strconv.Itoa(sw.status))
		})
	}
}
