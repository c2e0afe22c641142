package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const metricExportInterval = 30 * time.Second

// endpointConfig is an OTLP endpoint split into host and per-signal paths.
type endpointConfig struct {
	host       string
	insecure   bool
	tracePath  string
	logPath    string
	metricPath string
}

// parseEndpoint accepts "https://host", "http://host:4318" or a URL with a
// base path such as "https://host/otlp".
func parseEndpoint(raw string) endpointConfig {
	cfg := endpointConfig{
		host:       raw,
		tracePath:  "/v1/traces",
		logPath:    "/", // Better Stack accepts logs at root path
		metricPath: "/v1/metrics",
	}
	if raw == "" {
		return cfg
	}

	if strings.HasPrefix(cfg.host, "https://") {
		cfg.host = strings.TrimPrefix(cfg.host, "https://")
	} else if strings.HasPrefix(cfg.host, "http://") {
		cfg.host = strings.TrimPrefix(cfg.host, "http://")
		cfg.insecure = true
	}

	basePath := ""
	if idx := strings.Index(cfg.host, "/"); idx > 0 {
		basePath = cfg.host[idx:]
		cfg.host = cfg.host[:idx]
	}

	if basePath == "/otlp" {
		cfg.tracePath = "/otlp/v1/traces"
		cfg.logPath = "/otlp/v1/logs"
		cfg.metricPath = "/otlp/v1/metrics"
	} else if basePath != "" {
		for _, suffix := range []string{"/v1/traces", "/v1/logs", "/v1/metrics"} {
			basePath = strings.TrimSuffix(basePath, suffix)
		}
		basePath = strings.TrimSuffix(basePath, "/")
		cfg.tracePath = basePath + "/v1/traces"
		cfg.logPath = basePath + "/v1/logs"
		cfg.metricPath = basePath + "/v1/metrics"
	}
	return cfg
}

// InitTelemetry initializes OpenTelemetry traces, logs and metrics with OTLP/HTTP exporters.
// Returns shutdown function and error
func InitTelemetry(ctx context.Context, serviceName, serviceVersion, env, otlpEndpoint string, headers map[string]string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.DeploymentEnvironmentKey.String(env),
		),
	)
	if err != nil {
		return nil, err
	}

	ep := parseEndpoint(otlpEndpoint)

	traceOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(ep.host),
		otlptracehttp.WithURLPath(ep.tracePath),
	}
	logOpts := []otlploghttp.Option{
		otlploghttp.WithEndpoint(ep.host),
		otlploghttp.WithURLPath(ep.logPath),
	}
	metricOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(ep.host),
		otlpmetrichttp.WithURLPath(ep.metricPath),
	}
	if len(headers) > 0 {
		traceOpts = append(traceOpts, otlptracehttp.WithHeaders(headers))
		logOpts = append(logOpts, otlploghttp.WithHeaders(headers))
		metricOpts = append(metricOpts, otlpmetrichttp.WithHeaders(headers))
	}
	if ep.insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		logOpts = append(logOpts, otlploghttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, err
	}

	logExporter, err := otlploghttp.New(ctx, logOpts...)
	if err != nil {
		return nil, err
	}

	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(lp)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(metricExportInterval),
		)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	slog.Info("Telemetry initialized",
		"endpoint", ep.host,
		"trace_path", ep.tracePath,
		"log_path", ep.logPath,
		"metric_path", ep.metricPath,
		"insecure", ep.insecure,
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		return errors.Join(
			tp.Shutdown(ctx),
			lp.Shutdown(ctx),
			mp.Shutdown(ctx),
		)
	}, nil
}

// Tracer returns a tracer with the given name
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
