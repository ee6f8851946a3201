package web

import (
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/simseed/simseed/log"
)

const (
	traceIDHeader   = "X-Trace-ID"
	requestIDHeader = "X-Request-ID"
)

// RequestLogger attaches a request scoped logger carrying a fresh
// request id to the context. Handlers pick it up via log.GetFromContext.
func RequestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			reqLog := logger.With(log.String("reqId", reqID))
			w.Header().Set(requestIDHeader, reqID)
			reqLog.Debug("handling request",
				log.String("method", r.Method),
				log.String("path", r.URL.Path))
			next.ServeHTTP(w, r.WithContext(log.NewContext(r.Context(), reqLog)))
		})
	}
}

// TraceID mirrors the active span's trace id into the response header
// so clients can correlate failing requests with collected traces.
func TraceID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			span := trace.SpanFromContext(r.Context())
			if span != nil && span.SpanContext().IsValid() {
				w.Header().Set(traceIDHeader, span.SpanContext().TraceID().String())
			}
			next.ServeHTTP(w, r)
		})
	}
}
