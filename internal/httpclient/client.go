package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTransport is the base transport used by instrumented clients.
var DefaultTransport = http.DefaultTransport

type contextKey string

const (
	providerKey contextKey = "httpclient.provider"
	modelKey    contextKey = "httpclient.model"
)

// WithProvider adds an upstream provider name to the context for tracing.
func WithProvider(ctx context.Context, provider string) context.Context {
	return context.WithValue(ctx, providerKey, provider)
}

// WithModel adds the candidate model being called to the context for tracing.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, modelKey, model)
}

func ProviderFrom(ctx context.Context) string {
	p, _ := ctx.Value(providerKey).(string)
	return p
}

func ModelFrom(ctx context.Context) string {
	m, _ := ctx.Value(modelKey).(string)
	return m
}

// annotatingTransport copies provider and model from the request context onto
// the current client span and marks failures.
type annotatingTransport struct {
	base http.RoundTripper
}

func (t *annotatingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	span := trace.SpanFromContext(req.Context())
	if provider := ProviderFrom(req.Context()); provider != "" {
		span.SetAttributes(attribute.String("provider", provider))
	}
	if model := ModelFrom(req.Context()); model != "" {
		span.SetAttributes(attribute.String("gen_ai.request.model", model))
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP status %d", resp.StatusCode))
	}
	return resp, nil
}

func spanName(_ string, r *http.Request) string {
	provider := ProviderFrom(r.Context())
	model := ModelFrom(r.Context())
	switch {
	case provider != "" && model != "":
		return fmt.Sprintf("%s %s: %s", provider, model, r.Method)
	case provider != "":
		return fmt.Sprintf("%s: %s %s", provider, r.Method, r.URL.Path)
	default:
		return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
	}
}

func newOtelTransport(base http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(&annotatingTransport{base: base},
		otelhttp.WithSpanNameFormatter(spanName),
	)
}

// NewInstrumentedClient returns a new http.Client with OpenTelemetry instrumentation and custom timeout.
// The timeout bounds each upstream call; callers add none of their own.
func NewInstrumentedClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: newOtelTransport(DefaultTransport),
		Timeout:   timeout,
	}
}

// WrapClient wraps an existing http.Client's transport with OpenTelemetry instrumentation.
func WrapClient(client *http.Client) *http.Client {
	if client.Transport == nil {
		client.Transport = DefaultTransport
	}
	client.Transport = newOtelTransport(client.Transport)
	return client
}
