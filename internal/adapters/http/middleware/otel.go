package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/telemetry"
)

// OpenTelemetry returns middleware that creates a trace span for each incoming
// request and records server request metrics. It extracts W3C Trace Context
// from incoming headers so that distributed traces are connected.
//
// When the request is routed by chi, the span is renamed after the matched
// route pattern (e.g. "HTTP GET /todoitems/{id}") and the pattern is recorded
// as http.route so that IDs do not inflate span and metric cardinality.
//
// If metrics is nil, metric recording is skipped (safe nil check).
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			tracer := otel.GetTracerProvider().Tracer("middleware")
			spanName := fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
			ctx, span := tracer.Start(ctx, spanName,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.url", r.URL.String()),
				),
			)
			defer span.End()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			route := routePattern(r)
			if route != "" {
				span.SetName(fmt.Sprintf("HTTP %s %s", r.Method, route))
				span.SetAttributes(telemetry.AttrHTTPRoute.String(route))
			}

			status := rw.statusCode
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			recordServerMetrics(ctx, metrics, r.Method, route, start, status)
		})
	}
}

// recordServerMetrics records server request duration and count metrics.
// Safe to call with nil metrics.
func recordServerMetrics(ctx context.Context, metrics *telemetry.Metrics, method, route string, start time.Time, status int) {
	if metrics == nil {
		return
	}

	duration := time.Since(start).Seconds()

	result := "success"
	if status >= http.StatusBadRequest {
		result = "error"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPRoute.String(route),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrResult.String(result),
	)

	metrics.ServerRequestDuration.Record(ctx, duration, attrs)
	metrics.ServerRequestTotal.Add(ctx, 1, attrs)
}

// routePattern returns the chi route pattern that matched r, or "" when the
// request was not routed by chi. The routing context is shared with the
// downstream router, so the pattern is complete once the handler returns.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
