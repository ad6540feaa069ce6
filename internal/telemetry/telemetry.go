// Package telemetry wires OpenTelemetry tracing and metrics for the API client.
//
// Exporters:
//
//	none   - no-op tracer and meter, nothing recorded (default)
//	stdout - spans and metrics written as JSON to a writer (usually a file in the config dir)
//	otlp   - spans and metrics shipped over gRPC to an OTLP collector
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"

	instrumentationName = "seller-cli"
)

type Config struct {
	ServiceName string
	Version     string
	Exporter    string
	// Endpoint is the OTLP collector host:port.
	Endpoint string
	// Writer receives stdout-exporter spans and metrics.
	Writer io.Writer
	// Reader, when set, is attached to the meter provider next to the
	// exporter's periodic reader.
	Reader sdkmetric.Reader
}

// Provider owns the tracer and meter providers for the process lifetime.
type Provider struct {
	tp     *sdktrace.TracerProvider
	mp     *sdkmetric.MeterProvider
	tracer trace.Tracer
	meter  metric.Meter
}

// Setup builds a provider for cfg. An empty or "none" exporter yields a no-op
// provider that is still safe to use everywhere.
func Setup(ctx context.Context, cfg Config) (*Provider, error) {
	exp := strings.ToLower(strings.TrimSpace(cfg.Exporter))
	if exp == "" || exp == ExporterNone {
		return Noop(), nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = instrumentationName
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: resource: %w", err)
	}

	var (
		spanExp   sdktrace.SpanExporter
		metricExp sdkmetric.Exporter
	)
	switch exp {
	case ExporterStdout:
		w := cfg.Writer
		if w == nil {
			w = io.Discard
		}
		spanExp, err = stdouttrace.New(stdouttrace.WithWriter(w))
		if err == nil {
			metricExp, err = stdoutmetric.New(stdoutmetric.WithWriter(w))
		}
	case ExporterOTLP:
		if cfg.Endpoint == "" {
			return nil, errors.New("telemetry: otlp exporter requires an endpoint")
		}
		spanExp, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err == nil {
			metricExp, err = otlpmetricgrpc.New(ctx,
				otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
				otlpmetricgrpc.WithInsecure(),
			)
		}
	default:
		return nil, fmt.Errorf("telemetry: unknown exporter %q (expected none|stdout|otlp)", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("telemetry: exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExp),
		sdktrace.WithResource(res),
	)
	mopts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
	}
	if cfg.Reader != nil {
		mopts = append(mopts, sdkmetric.WithReader(cfg.Reader))
	}
	mp := sdkmetric.NewMeterProvider(mopts...)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &Provider{
		tp:     tp,
		mp:     mp,
		tracer: tp.Tracer(instrumentationName),
		meter:  mp.Meter(instrumentationName),
	}, nil
}

// Noop returns a provider whose tracer and meter record nothing.
func Noop() *Provider {
	return &Provider{
		tracer: noop.NewTracerProvider().Tracer(instrumentationName),
		meter:  metricnoop.NewMeterProvider().Meter(instrumentationName),
	}
}

func (p *Provider) Tracer() trace.Tracer { return p.tracer }
func (p *Provider) Meter() metric.Meter  { return p.meter }

// Enabled reports whether spans leave the process.
func (p *Provider) Enabled() bool { return p != nil && p.tp != nil }

// HTTPClient wraps base with otelhttp so outgoing requests carry trace context.
func (p *Provider) HTTPClient(base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	var opts []otelhttp.Option
	if p.tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(p.tp))
	} else {
		opts = append(opts, otelhttp.WithTracerProvider(noop.NewTracerProvider()))
	}
	opts = append(opts, otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
		return "HTTP " + r.Method + " " + r.URL.Path
	}))
	return &http.Client{Transport: otelhttp.NewTransport(base, opts...)}
}

// Shutdown flushes pending spans and a final metric collection.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.tp != nil {
		errs = append(errs, p.tp.Shutdown(ctx))
	}
	if p.mp != nil {
		errs = append(errs, p.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Handler wraps an inbound handler so served requests become spans.
func (p *Provider) Handler(h http.Handler, operation string) http.Handler {
	var opts []otelhttp.Option
	if p.tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(p.tp))
	} else {
		opts = append(opts, otelhttp.WithTracerProvider(noop.NewTracerProvider()))
	}
	return otelhttp.NewHandler(h, operation, opts...)
}
