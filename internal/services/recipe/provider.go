package recipe

import (
	"context"

	"github.com/socialchef/snapchef/internal/services/ai"
)

// Image is a decoded-and-validated upload, kept in its original encoding.
type Image struct {
	Data     []byte
	MIMEType string
}

// GenerationRequest is everything the user supplied for one recipe.
type GenerationRequest struct {
	Image      Image
	Diet       ai.DietType
	Difficulty ai.Difficulty
	Allergies  string
}

// Recipe is a successful generation. Markdown is the model output verbatim.
type Recipe struct {
	Markdown string
	Model    string
	Attempts int
}

// Generator sends one prompt plus image to one upstream model.
type Generator interface {
	GenerateContent(ctx context.Context, model, prompt string, image Image) (string, error)
}

// ClientFactory builds a Generator for a resolved API key. A failure here is
// a system failure, not a per-candidate one.
type ClientFactory func(ctx context.Context, apiKey string) (Generator, error)

// CredentialResolver looks up a secret by name.
type CredentialResolver interface {
	Resolve(ctx context.Context, key string) (string, error)
}
