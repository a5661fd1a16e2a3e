package llm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"prompt_ops/pkg/core/config"
)

// RegistryConfig selects which provider backs which prompt. Loaded from a
// YAML file so deployments can switch models without a rebuild.
type RegistryConfig struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Prompts        map[string]PromptRoute `yaml:"prompts"`
}

// PromptRoute is an optional per-prompt provider override.
type PromptRoute struct {
	Provider    string `yaml:"provider"`
	Description string `yaml:"description"`
}

// Registry resolves a Provider for a prompt name.
type Registry struct {
	config    RegistryConfig
	providers map[string]Provider
}

// NewRegistry wires the known providers with credentials from cfg.
func NewRegistry(regCfg RegistryConfig, cfg config.Config) *Registry {
	return &Registry{
		config: regCfg,
		providers: map[string]Provider{
			"openai": &OpenAIProvider{APIKey: cfg.OpenAIKey},
			"gemini": &GeminiProvider{APIKey: cfg.GeminiKey},
		},
	}
}

// Provider returns the provider for the named prompt: the per-prompt
// override when configured, then the global active provider, then OpenAI.
func (r *Registry) Provider(promptName string) Provider {
	if route, ok := r.config.Prompts[promptName]; ok && route.Provider != "" {
		if p, ok := r.providers[route.Provider]; ok {
			return p
		}
	}
	if p, ok := r.providers[r.config.ActiveProvider]; ok {
		return p
	}
	return r.providers["openai"]
}

// LoadRegistryConfig reads a registry config from a YAML file.
func LoadRegistryConfig(path string) (RegistryConfig, error) {
	var regCfg RegistryConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return regCfg, fmt.Errorf("failed to read registry config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &regCfg); err != nil {
		return regCfg, fmt.Errorf("failed to parse registry config %s: %w", path, err)
	}
	return regCfg, nil
}
