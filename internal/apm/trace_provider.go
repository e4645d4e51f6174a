// Package apm configures OpenTelemetry tracing for the explorer.
package apm

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/cosvm-explorer/internal/logger"
)

type Provider string

const (
	ZipkinProvider   Provider = "zipkin"
	OTLPGRPCProvider Provider = "otlp-grpc"
	OTLPHTTPProvider Provider = "otlp-http"
	ConsoleProvider  Provider = "console"
	EmptyProvider    Provider = "empty"
)

type TraceProvider interface {
	Stop() error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

type emptyTraceProvider struct{}

func (emptyTraceProvider) Stop() error { return nil }

type TracerOptions struct {
	exporter     sdktrace.SpanExporter
	providerName Provider
	serviceName  string
	err          error
}

type TracerOption func(*TracerOptions)

// WithProvider selects the span exporter. Unknown providers disable tracing.
func WithProvider(provider Provider, endpoint string, log logger.LoggerInterface) TracerOption {
	return func(o *TracerOptions) {
		o.providerName = provider
		ctx := context.Background()

		switch provider {
		case ZipkinProvider:
			o.exporter, o.err = zipkin.New(endpoint)
		case OTLPGRPCProvider:
			o.exporter, o.err = otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(endpoint))
		case OTLPHTTPProvider:
			o.exporter, o.err = otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
		case ConsoleProvider:
			o.exporter, o.err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		default:
			log.Warn(ctx, "unknown trace provider, tracing disabled", "provider", string(provider))
			o.providerName = EmptyProvider
		}
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) TracerOption {
	return func(o *TracerOptions) {
		o.serviceName = name
	}
}

// NewTraceProvider installs a global tracer provider. Without options, or
// when the exporter cannot be built, it returns a no-op provider.
func NewTraceProvider(log logger.LoggerInterface, options ...TracerOption) (TraceProvider, error) {
	opts := &TracerOptions{providerName: EmptyProvider}
	for _, opt := range options {
		opt(opts)
	}

	if opts.err != nil {
		return emptyTraceProvider{}, fmt.Errorf("%s exporter: %w", opts.providerName, opts.err)
	}
	if opts.exporter == nil {
		return emptyTraceProvider{}, nil
	}

	rsrc, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(opts.serviceName),
			attribute.String("otel.provider", string(opts.providerName)),
		))
	if err != nil {
		// Schema conflicts with the SDK default are not fatal.
		rsrc = resource.Default()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(opts.exporter),
		sdktrace.WithResource(rsrc),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	log.Info(context.Background(), "tracing enabled", "provider", string(opts.providerName))
	return &traceProvider{tp}, nil
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return o.tp.Shutdown(ctx)
}
