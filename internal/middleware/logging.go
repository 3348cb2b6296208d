package middleware

import (
	"net/http"
	"time"

	"github.com/Dan9191/bank-insights/internal/metrics"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// statusResponseWriter captures the status code
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// RequestLogger logs every request and records it with rec
func RequestLogger(log *logrus.Logger, rec metrics.Recorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(srw, r)

			duration := time.Since(start)
			route := routeTemplate(r)
			rec.RecordRequest(route, srw.statusCode, duration)

			entry := log.WithFields(logrus.Fields{
				"method":      r.Method,
				"route":       route,
				"status":      srw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
			if srw.statusCode >= http.StatusInternalServerError {
				entry.Error("Request failed")
				return
			}
			entry.Info("Request handled")
		})
	}
}

// routeTemplate returns a normalized path for metrics labels
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return r.URL.Path
	}
	tmpl, err := route.GetPathTemplate()
	if err != nil {
		return r.URL.Path
	}
	return tmpl
}
