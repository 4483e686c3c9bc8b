package route

import (
	"log/slog"
	"net/http"
	"time"

	"opsdesk/src-server/utils"
)

// Observe wraps a handler with request logging and a latency sample for the
// metric collector.
func Observe(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		startTimer := time.Now()
		next(w, r)
		took := time.Since(startTimer)
		as.MetricChans.ReportHTTPRequest(float64(took.Microseconds()))
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"took", took.String())
	}
}
