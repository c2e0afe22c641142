// Package secrets resolves credentials from an ordered list of sources.
//
// The service looks in the process environment first and then in the
// application secret store, a flat YAML file of KEY: value pairs. The first
// non-empty value wins.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GeminiAPIKey is the name under which the upstream credential is stored.
const GeminiAPIKey = "GEMINI_API_KEY"

// ErrNotFound is returned when no source holds a non-empty value for the key.
var ErrNotFound = errors.New("secret not found")

// Source is one place a secret may live.
type Source interface {
	Name() string
	// Lookup returns "" with a nil error when the key is absent.
	Lookup(key string) (string, error)
}

// Resolver walks its sources in order.
type Resolver struct {
	sources []Source
}

// NewResolver returns a resolver that consults sources in the given order.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// Default returns the env-then-file resolver used by the server.
func Default(secretsFile string) *Resolver {
	return NewResolver(EnvSource{}, NewFileSource(secretsFile))
}

// Resolve returns the first non-empty value for key.
func (r *Resolver) Resolve(ctx context.Context, key string) (string, error) {
	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		val, err := src.Lookup(key)
		if err != nil {
			return "", fmt.Errorf("secret source %s: %w", src.Name(), err)
		}
		if val = strings.TrimSpace(val); val != "" {
			return val, nil
		}
	}
	return "", ErrNotFound
}

// EnvSource reads the process environment.
type EnvSource struct{}

func (EnvSource) Name() string { return "env" }

func (EnvSource) Lookup(key string) (string, error) {
	return os.Getenv(key), nil
}

// FileSource reads a YAML secret store. The file is re-read on every lookup
// so a key added after startup is picked up without a restart.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Lookup(key string) (string, error) {
	if s.path == "" {
		return "", nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read secrets file: %w", err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return "", fmt.Errorf("failed to parse secrets file: %w", err)
	}

	raw, ok := values[key]
	if !ok || raw == nil {
		return "", nil
	}
	switch v := raw.(type) {
	case string:
		return v, nil
	case int, int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("secret %s is not a scalar", key)
	}
}
