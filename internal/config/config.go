package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultModels is the ordered Gemini candidate list used when config.yaml
// does not override it.
var DefaultModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-pro-latest",
	"gemini-flash-latest",
	"gemini-2.0-flash-001",
}

const (
	defaultRequestTimeout = 120 * time.Second
	defaultSecretsFile    = "secrets.yaml"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	SecretsFile  string
	APIJWTSecret string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	Generation GenerationConfig
}

// GenerationConfig controls how the orchestrator reaches Gemini.
type GenerationConfig struct {
	Models         []string
	RequestTimeout time.Duration
	BaseURL        string
}

type generationYAML struct {
	Models         []string `yaml:"models"`
	RequestTimeout string   `yaml:"request_timeout"`
	BaseURL        string   `yaml:"base_url"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		SecretsFile:              os.Getenv("SECRETS_FILE"),
		APIJWTSecret:             os.Getenv("API_JWT_SECRET"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}

	// Load from YAML file if available
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := cfg.LoadFromYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "snapchef"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.SecretsFile == "" {
		cfg.SecretsFile = defaultSecretsFile
	}

	cfg.SetGenerationDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Generation generationYAML `yaml:"generation"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if len(yamlConfig.Generation.Models) > 0 {
		c.Generation.Models = append([]string(nil), yamlConfig.Generation.Models...)
	}
	if yamlConfig.Generation.RequestTimeout != "" {
		d, err := time.ParseDuration(yamlConfig.Generation.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid generation.request_timeout %q: %w", yamlConfig.Generation.RequestTimeout, err)
		}
		c.Generation.RequestTimeout = d
	}
	if yamlConfig.Generation.BaseURL != "" {
		c.Generation.BaseURL = yamlConfig.Generation.BaseURL
	}

	return nil
}

func (c *Config) SetGenerationDefaults() {
	if len(c.Generation.Models) == 0 {
		c.Generation.Models = append([]string(nil), DefaultModels...)
	}
	if c.Generation.RequestTimeout <= 0 {
		c.Generation.RequestTimeout = defaultRequestTimeout
	}
}

// OTLPHeaders parses OTEL_EXPORTER_OTLP_HEADERS ("k1=v1,k2=v2").
func (c *Config) OTLPHeaders() map[string]string {
	if c.OtelExporterOTLPHeaders == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(c.OtelExporterOTLPHeaders, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers
}

func (c *Config) validate() error {
	for i, m := range c.Generation.Models {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("generation.models[%d] is empty", i)
		}
	}
	return nil
}
