package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"prompt_ops/pkg/core/langfuse"
)

// GeminiProvider implements Provider on top of Google's GenAI SDK, for
// callers that point a prompt at a Gemini model instead of OpenAI.
type GeminiProvider struct {
	APIKey string // falls back to GEMINI_API_KEY when blank
}

var _ Provider = (*GeminiProvider)(nil)

// Complete maps the rendered messages onto the Gemini request shape: system
// messages become the system instruction, the remaining contents are joined
// into the user prompt. One generateContent call per invocation.
func (p *GeminiProvider) Complete(ctx context.Context, messages []langfuse.ChatMessage, config map[string]interface{}) (string, error) {
	apiKey := p.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	model := "gemini-2.0-flash-exp"
	if val, ok := config["model"].(string); ok && val != "" {
		model = val
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	genConfig := &genai.GenerateContentConfig{}
	if val, ok := config["temperature"].(float64); ok {
		genConfig.Temperature = genai.Ptr(float32(val))
	}
	if val, ok := config["response_format"].(map[string]interface{}); ok {
		if val["type"] == "json_object" {
			genConfig.ResponseMIMEType = "application/json"
		}
	}

	var systemParts []string
	var userParts []string
	for _, msg := range messages {
		if msg.Role == "system" {
			systemParts = append(systemParts, msg.Content)
		} else {
			userParts = append(userParts, msg.Content)
		}
	}
	if len(systemParts) > 0 {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: strings.Join(systemParts, "\n\n")},
			},
		}
	}

	result, err := client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(strings.Join(userParts, "\n\n")),
		genConfig,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return result.Text(), nil
}
