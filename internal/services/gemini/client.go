// Package gemini adapts the Google Gemini API to the recipe.Generator interface.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/socialchef/snapchef/internal/httpclient"
	"github.com/socialchef/snapchef/internal/metrics"
	"github.com/socialchef/snapchef/internal/services/recipe"
)

const providerName = "gemini"

// Options configures clients built by NewClient and NewFactory.
type Options struct {
	// HTTPClient carries the per-call timeout and tracing. Nil means an
	// instrumented client without a timeout.
	HTTPClient *http.Client
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

// Client calls generateContent on one model per request.
type Client struct {
	client *genai.Client
}

// NewClient creates a Gemini API client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key is empty")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.WrapClient(&http.Client{})
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: opts.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{client: client}, nil
}

// NewFactory returns a recipe.ClientFactory producing clients with opts.
func NewFactory(opts Options) recipe.ClientFactory {
	return func(ctx context.Context, apiKey string) (recipe.Generator, error) {
		return NewClient(ctx, apiKey, opts)
	}
}

// GenerateContent sends the prompt and image as a single user turn and
// returns the concatenated text of the first candidate.
func (c *Client) GenerateContent(ctx context.Context, model, prompt string, image recipe.Image) (string, error) {
	ctx = httpclient.WithModel(httpclient.WithProvider(ctx, providerName), model)

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if len(image.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(image.Data, image.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, nil)
	metrics.RecordExternalCall(ctx, providerName, model, time.Since(start))
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &recipe.UpstreamError{
				Model:      model,
				StatusCode: apiErr.Code,
				Status:     apiErr.Status,
				Message:    apiErr.Message,
			}
		}
		return "", fmt.Errorf("model %s: failed to generate content: %w", model, err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("model %s: %w", model, recipe.ErrEmptyResponse)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
