package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("snapchef/business")

	// Recipe metrics
	RecipeGenerationsTotal   metric.Int64Counter
	RecipeGenerationDuration metric.Float64Histogram

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// Model candidate metrics
	ModelAttemptsTotal metric.Int64Counter
	ModelFallbackTotal metric.Int64Counter
)

func Init() error {
	var err error

	RecipeGenerationsTotal, err = meter.Int64Counter(
		"recipe.generations.total",
		metric.WithDescription("Total number of recipe generation requests by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeGenerationDuration, err = meter.Float64Histogram(
		"recipe.generation.duration",
		metric.WithDescription("End-to-end duration of a recipe generation request"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return err
	}

	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	ModelAttemptsTotal, err = meter.Int64Counter(
		"ai.model.attempts.total",
		metric.WithDescription("Total number of candidate model attempts"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ModelFallbackTotal, err = meter.Int64Counter(
		"ai.model.fallback.total",
		metric.WithDescription("Total number of fallbacks from one candidate model to the next"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}

// The Record helpers are safe to call before Init; they drop the measurement.

func RecordGeneration(ctx context.Context, outcome string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	if RecipeGenerationsTotal != nil {
		RecipeGenerationsTotal.Add(ctx, 1, attrs)
	}
	if RecipeGenerationDuration != nil {
		RecipeGenerationDuration.Record(ctx, d.Seconds(), attrs)
	}
}

func RecordExternalCall(ctx context.Context, provider, model string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("model", model),
	)
	if ExternalAPICallsTotal != nil {
		ExternalAPICallsTotal.Add(ctx, 1, attrs)
	}
	if ExternalAPIDuration != nil {
		ExternalAPIDuration.Record(ctx, d.Seconds(), attrs)
	}
}

func RecordModelAttempt(ctx context.Context, model, outcome, errorType string) {
	if ModelAttemptsTotal == nil {
		return
	}
	ModelAttemptsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("outcome", outcome),
		attribute.String("error_type", errorType),
	))
}

func RecordFallback(ctx context.Context, fromModel, reason string) {
	if ModelFallbackTotal == nil {
		return
	}
	ModelFallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_model", fromModel),
		attribute.String("reason", reason),
	))
}
