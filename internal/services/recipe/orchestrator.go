// Package recipe turns a food photo and the user's preferences into a
// Markdown recipe, trying an ordered list of upstream models until one
// answers.
package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	apperrors "github.com/socialchef/snapchef/internal/errors"
	"github.com/socialchef/snapchef/internal/logger"
	"github.com/socialchef/snapchef/internal/metrics"
	"github.com/socialchef/snapchef/internal/secrets"
	"github.com/socialchef/snapchef/internal/services/ai"
	"github.com/socialchef/snapchef/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Config holds the orchestrator settings.
type Config struct {
	// Models is the candidate list, tried strictly in this order.
	Models []string
}

// Orchestrator runs one recipe generation per call. It keeps no state
// between calls and is safe for concurrent use.
type Orchestrator struct {
	models      []string
	credentials CredentialResolver
	newClient   ClientFactory
}

// NewOrchestrator validates cfg and returns an orchestrator.
func NewOrchestrator(cfg Config, credentials CredentialResolver, newClient ClientFactory) (*Orchestrator, error) {
	if len(cfg.Models) == 0 {
		return nil, errors.New("recipe: at least one candidate model is required")
	}
	if credentials == nil || newClient == nil {
		return nil, errors.New("recipe: credential resolver and client factory are required")
	}
	return &Orchestrator{
		models:      slices.Clone(cfg.Models),
		credentials: credentials,
		newClient:   newClient,
	}, nil
}

// Models returns a copy of the candidate list.
func (o *Orchestrator) Models() []string {
	return slices.Clone(o.models)
}

// Generate produces a recipe for req.
//
// Errors are always *apperrors.AppError: CREDENTIAL_MISSING when no API key
// is configured (no model is called), NO_MODEL_AVAILABLE when every
// candidate failed, and SYSTEM_FAILURE for anything outside the candidate
// loop.
func (o *Orchestrator) Generate(ctx context.Context, req GenerationRequest) (*Recipe, error) {
	ctx, span := telemetry.Tracer("snapchef/recipe").Start(ctx, "recipe.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("recipe.diet", string(req.Diet)),
		attribute.String("recipe.difficulty", string(req.Difficulty)),
		attribute.Int("recipe.candidates", len(o.models)),
	)

	start := time.Now()
	rec, err := o.generate(ctx, req)
	metrics.RecordGeneration(ctx, outcome(err), time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.TypeOf(err)))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("recipe.model", rec.Model),
		attribute.Int("recipe.attempts", rec.Attempts),
	)
	return rec, nil
}

func (o *Orchestrator) generate(ctx context.Context, req GenerationRequest) (*Recipe, error) {
	apiKey, err := o.credentials.Resolve(ctx, secrets.GeminiAPIKey)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			slog.WarnContext(ctx, "Recipe generation refused: API key not configured",
				"key", secrets.GeminiAPIKey,
				logger.WithTraceContext(ctx),
			)
			return nil, apperrors.NewCredentialMissingError(secrets.GeminiAPIKey)
		}
		return nil, apperrors.NewSystemFailureError(fmt.Errorf("resolve %s: %w", secrets.GeminiAPIKey, err))
	}

	prompt := ai.BuildRecipePrompt(req.Diet, req.Difficulty, req.Allergies)

	gen, err := o.newClient(ctx, apiKey)
	if err != nil {
		return nil, apperrors.NewSystemFailureError(fmt.Errorf("create model client: %w", err))
	}

	var (
		attempts int
		lastErr  error
	)
	for a := range Attempts(ctx, gen, o.models, prompt, req.Image) {
		attempts++
		if a.OK() {
			metrics.RecordModelAttempt(ctx, a.Model, "success", "")
			slog.InfoContext(ctx, "Recipe generated",
				"model", a.Model,
				"attempt", attempts,
				"duration_ms", a.Duration.Milliseconds(),
				logger.WithTraceContext(ctx),
			)
			return &Recipe{Markdown: a.Text, Model: a.Model, Attempts: attempts}, nil
		}

		classified := ClassifyError(a.Err, a.Model)
		metrics.RecordModelAttempt(ctx, a.Model, "failure", classified.Type)
		if attempts < len(o.models) {
			metrics.RecordFallback(ctx, a.Model, classified.Type)
		}
		slog.WarnContext(ctx, "Model candidate failed, trying next",
			"model", a.Model,
			"attempt", attempts,
			"error_type", classified.Type,
			"retryable", IsRetryableError(a.Err),
			"duration_ms", a.Duration.Milliseconds(),
			"error", a.Err,
			logger.WithTraceContext(ctx),
		)
		lastErr = a.Err
	}

	slog.ErrorContext(ctx, "All model candidates failed",
		"attempts", attempts,
		"last_error", lastErr,
		logger.WithTraceContext(ctx),
	)
	return nil, apperrors.NewNoModelAvailableError(attempts, lastErr)
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeCredentialMissing:
		return "credential_missing"
	case apperrors.ErrorTypeNoModelAvailable:
		return "no_model_available"
	default:
		return "system_failure"
	}
}
