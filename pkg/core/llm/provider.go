package llm

import (
	"context"

	"prompt_ops/pkg/core/langfuse"
)

// Provider is the single capability the prompt runner needs from an LLM
// platform: complete a rendered message list under the prompt's stored model
// configuration and return the raw text. Implementations make exactly one
// remote call per invocation and propagate provider errors unchanged.
type Provider interface {
	Complete(ctx context.Context, messages []langfuse.ChatMessage, config map[string]interface{}) (string, error)
}
