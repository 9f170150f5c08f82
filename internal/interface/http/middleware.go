package http

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/VeraBsp/filmorate/internal/infrastructure/metrics"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN
// ══════════════════════════════════════════════════════════════════════════════

const headerRequestID = "X-Request-ID"

// setupMiddleware installs the global middleware stack. Order matters: the
// request id and logger must exist before recovery can log a panic.
func (s *Server) setupMiddleware() {
	r := s.router

	r.Use(s.requestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
		MaxAge:         86400,
	}))
	if s.config.RateLimitPerMinute > 0 {
		r.Use(httprate.Limit(
			s.config.RateLimitPerMinute,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeJSONError(w, r, http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests, please try again later")
			}),
		))
	}
	if s.config.MaxBodyBytes > 0 {
		r.Use(chimiddleware.RequestSize(s.config.MaxBodyBytes))
	}
}

// requestIDMiddleware assigns a request id and a request-scoped logger.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, requestID)

		ctx := logger.WithContext(r.Context(), s.logger.WithRequestID(requestID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs every request and records HTTP metrics.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		route := routePattern(r)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

		log := logger.FromContextOr(r.Context(), s.logger)
		fields := []logger.Field{
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Latency(duration),
			logger.String("ip", r.RemoteAddr),
		}
		if status >= http.StatusInternalServerError {
			log.Error("http request", fields...)
			return
		}
		log.Info("http request", fields...)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.FromContextOr(r.Context(), s.logger).Error("panic recovered",
				logger.Any("error", rec),
				logger.String("stack", string(debug.Stack())),
				logger.String("path", r.URL.Path),
			)
			writeJSONError(w, r, http.StatusInternalServerError, codeInternal, "an unexpected error occurred")
		}()
		next.ServeHTTP(w, r)
	})
}

// routePattern returns the matched chi pattern so metrics labels stay bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
