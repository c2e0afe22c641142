package recipe

import (
	"github.com/socialchef/snapchef/internal/config"
)

// NewFromConfig builds an orchestrator from the generation section of the
// service configuration, falling back to the built-in candidate list.
func NewFromConfig(cfg config.GenerationConfig, credentials CredentialResolver, newClient ClientFactory) (*Orchestrator, error) {
	models := cfg.Models
	if len(models) == 0 {
		models = config.DefaultModels
	}
	return NewOrchestrator(Config{Models: models}, credentials, newClient)
}
