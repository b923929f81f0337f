// Package telemetry provides OpenTelemetry tracer and meter initialization
// with support for stdout (development) and OTLP/HTTP (production) exporters.
//
// Tracer initialization:
//
//	tp, err := telemetry.InitTracer(ctx, "todo-minimal-api", telemetry.ExporterStdout, "")
//	defer tp.Shutdown(ctx)
//
// Meter initialization:
//
//	mp, err := telemetry.InitMeter(ctx, "todo-minimal-api", telemetry.ExporterStdout, "")
//	defer mp.Shutdown(ctx)
//
// Pre-registered metrics:
//
//	metrics, err := telemetry.NewMetrics(mp, "todo-minimal-api")
//	metrics.ServerRequestTotal.Add(ctx, 1, ...)
//	metrics.StoreOperationTotal.Add(ctx, 1, ...)
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Exporter names accepted by InitTracer and InitMeter.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// instrumentationScope names the meter that owns the service's instruments.
const instrumentationScope = "github.com/jsamuelsen11/go-todo-minimal-api"

// Attribute keys for metric labels.
var (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatus     = attribute.Key("http.status_code")
	AttrStoreDriver    = attribute.Key("store.driver")
	AttrStoreOperation = attribute.Key("store.operation")
	AttrResult         = attribute.Key("result")
)

// Metrics holds pre-registered OpenTelemetry metric instruments.
type Metrics struct {
	ServerRequestDuration  metric.Float64Histogram
	ServerRequestTotal     metric.Int64Counter
	StoreOperationDuration metric.Float64Histogram
	StoreOperationTotal    metric.Int64Counter
}

// InitTracer creates and registers a global TracerProvider.
//
// The exporter parameter selects the span exporter: ExporterOTLP uses OTLP/HTTP
// with the given endpoint and ExporterStdout uses a pretty-printed stdout
// exporter for development. Any other value is an error.
//
// The returned TracerProvider must be shut down when the application exits.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spanExporter, err := newSpanExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// InitMeter creates and registers a global MeterProvider.
//
// The exporter parameter selects the metric exporter: ExporterOTLP uses
// OTLP/HTTP with the given endpoint and ExporterStdout writes to stdout for
// development. Any other value is an error.
//
// The returned MeterProvider must be shut down when the application exits.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	metricExporter, err := newMetricExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics creates and registers all metric instruments using the given MeterProvider.
// The meter is scoped to the service's module path and tagged with serviceName.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := mp.Meter(instrumentationScope,
		metric.WithInstrumentationAttributes(semconv.ServiceName(serviceName)),
	)

	serverDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of incoming HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.request.duration: %w", err)
	}

	serverTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of incoming HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.request.total: %w", err)
	}

	storeDuration, err := meter.Float64Histogram(
		"store.operation.duration",
		metric.WithDescription("Duration of todo store operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating store.operation.duration: %w", err)
	}

	storeTotal, err := meter.Int64Counter(
		"store.operation.total",
		metric.WithDescription("Total number of todo store operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating store.operation.total: %w", err)
	}

	return &Metrics{
		ServerRequestDuration:  serverDuration,
		ServerRequestTotal:     serverTotal,
		StoreOperationDuration: storeDuration,
		StoreOperationTotal:    storeTotal,
	}, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

var errEmptyEndpoint = errors.New("otlp exporter requires an endpoint")

func newSpanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case ExporterOTLP:
		if endpoint == "" {
			return nil, errEmptyEndpoint
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported exporter %q", exporter)
	}
}

func newMetricExporter(ctx context.Context, exporter, endpoint string) (sdkmetric.Exporter, error) {
	switch exporter {
	case ExporterOTLP:
		if endpoint == "" {
			return nil, errEmptyEndpoint
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	case ExporterStdout:
		return stdoutmetric.New()
	default:
		return nil, fmt.Errorf("unsupported exporter %q", exporter)
	}
}

// hostPort extracts the host:port from a URL string
// (e.g., "http://otel-collector:4318" -> "otel-collector:4318").
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// isHTTPS returns true if the endpoint URL uses the https scheme.
func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}
