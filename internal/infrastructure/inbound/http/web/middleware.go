package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	ports "yatube/internal/domain/ports/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const unmatchedRoute = "unmatched"

// Observe records request metrics by route pattern and logs each request.
func Observe(log ports.Logger, metrics ports.MetricsProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			duration := time.Since(start)

			metrics.IncrementHTTPRequests(r.Method, route, strconv.Itoa(status))
			metrics.RecordHTTPRequestDuration(r.Method, route, strconv.Itoa(status), duration)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", route),
				slog.Int("status", status),
				slog.Duration("duration", duration),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			}
			if status >= http.StatusInternalServerError {
				log.Error("Request failed", attrs...)
			} else {
				log.Info("Request handled", attrs...)
			}
		})
	}
}

// Recover turns a panicking handler into a 500 page.
func Recover(log ports.Logger, renderer *Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("Handler panicked", slog.Any("panic", rec), slog.String("path", r.URL.Path))
					renderer.ServerError(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
