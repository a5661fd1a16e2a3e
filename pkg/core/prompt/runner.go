package prompt

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"prompt_ops/pkg/core/langfuse"
	"prompt_ops/pkg/core/llm"
)

// Fetcher retrieves a named prompt from the management service. Implemented
// by *langfuse.Client; tests substitute an in-memory fake.
type Fetcher interface {
	GetPrompt(ctx context.Context, name string, version int) (*langfuse.Prompt, error)
}

// Runner fetches a named prompt once and executes it against an LLM
// provider. It holds no durable state beyond the fetched prompt; each Run is
// one render plus at most one provider call.
type Runner struct {
	prompt   *langfuse.Prompt
	provider llm.Provider
}

// NewRunner resolves the named prompt (latest version when version is 0) and
// binds it to a provider. A missing prompt name surfaces here, unchanged
// from the management service.
func NewRunner(ctx context.Context, fetcher Fetcher, provider llm.Provider, name string, version int) (*Runner, error) {
	fetched, err := fetcher.GetPrompt(ctx, name, version)
	if err != nil {
		return nil, err
	}
	return &Runner{prompt: fetched, provider: provider}, nil
}

// Prompt returns the fetched prompt, including its version and config.
func (r *Runner) Prompt() *langfuse.Prompt {
	return r.prompt
}

// Messages returns the prompt's raw role/content pairs before rendering.
func (r *Runner) Messages() ([]langfuse.ChatMessage, error) {
	return r.prompt.Messages()
}

// Run renders the prompt with the given inputs and submits it to the
// provider under the prompt's stored config (or the override when non-nil).
// Returns the provider's raw response text.
//
// A json_schema entry in the config is not a provider parameter: it is
// removed and its stringified form injected as the json_schema_str input, so
// templates can embed the expected output schema.
func (r *Runner) Run(ctx context.Context, inputs map[string]interface{}, override map[string]interface{}) (string, error) {
	config := override
	if config == nil {
		config = r.prompt.Config
	}

	callConfig := map[string]interface{}{}
	for key, value := range config {
		callConfig[key] = value
	}
	if schema, ok := callConfig["json_schema"].(map[string]interface{}); ok {
		delete(callConfig, "json_schema")
		inputs = withSchemaInput(inputs, schema)
	} else {
		delete(callConfig, "json_schema")
	}

	messages, err := r.prompt.Messages()
	if err != nil {
		return "", err
	}
	rendered, err := RenderMessages(messages, inputs)
	if err != nil {
		return "", err
	}

	return r.provider.Complete(ctx, rendered, callConfig)
}

// withSchemaInput copies inputs and adds json_schema_str, the schema joined
// as 'key': value pairs in key order.
func withSchemaInput(inputs map[string]interface{}, schema map[string]interface{}) map[string]interface{} {
	keys := make([]string, 0, len(schema))
	for key := range schema {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("'%s': %v", key, schema[key]))
	}

	combined := make(map[string]interface{}, len(inputs)+1)
	for key, value := range inputs {
		combined[key] = value
	}
	combined["json_schema_str"] = strings.Join(pairs, ", ")
	return combined
}
