package llm

import (
	"os"
	"path/filepath"
	"testing"

	"prompt_ops/pkg/core/config"
)

func TestRegistryProviderSelection(t *testing.T) {
	regCfg := RegistryConfig{
		ActiveProvider: "gemini",
		Prompts: map[string]PromptRoute{
			"skill-matcher": {Provider: "openai"},
			"unknown-route": {Provider: "does-not-exist"},
		},
	}
	registry := NewRegistry(regCfg, config.Config{})

	if _, ok := registry.Provider("skill-matcher").(*OpenAIProvider); !ok {
		t.Error("Expected per-prompt override to win")
	}
	if _, ok := registry.Provider("anything-else").(*GeminiProvider); !ok {
		t.Error("Expected the global active provider as fallback")
	}
	if _, ok := registry.Provider("unknown-route").(*GeminiProvider); !ok {
		t.Error("Expected an unknown override to fall through to the active provider")
	}
}

func TestRegistryDefaultsToOpenAI(t *testing.T) {
	registry := NewRegistry(RegistryConfig{}, config.Config{})
	if _, ok := registry.Provider("any").(*OpenAIProvider); !ok {
		t.Error("Expected OpenAI as the default provider")
	}
}

func TestLoadRegistryConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	content := `active_provider: openai
prompts:
  attestation-schema:
    provider: gemini
    description: structured extraction
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	regCfg, err := LoadRegistryConfig(path)
	if err != nil {
		t.Fatalf("LoadRegistryConfig failed: %v", err)
	}
	if regCfg.ActiveProvider != "openai" {
		t.Errorf("Unexpected active provider: %q", regCfg.ActiveProvider)
	}
	if regCfg.Prompts["attestation-schema"].Provider != "gemini" {
		t.Errorf("Unexpected route: %+v", regCfg.Prompts)
	}
}

func TestLoadRegistryConfigMissingFile(t *testing.T) {
	if _, err := LoadRegistryConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}
