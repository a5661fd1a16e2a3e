package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"prompt_ops/pkg/core/langfuse"
)

const openAIChatURL = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider calls the OpenAI chat completions API. The default
// provider when none is specified, matching the upstream service.
type OpenAIProvider struct {
	APIKey  string // falls back to OPENAI_API_KEY when blank
	BaseURL string // overridable for tests; defaults to the public endpoint
	Client  *http.Client
}

var _ Provider = (*OpenAIProvider)(nil)

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one chat completion request. Sampling parameters come from
// the config mapping as stored on the prompt (model, temperature, top_p,
// max_tokens, response_format, ...) and are forwarded as-is.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []langfuse.ChatMessage, config map[string]interface{}) (string, error) {
	apiKey := p.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY_MISSING: please set OPENAI_API_KEY env var")
	}

	body := map[string]interface{}{}
	for key, value := range config {
		body[key] = value
	}
	if _, ok := body["model"]; !ok {
		body["model"] = "gpt-4o-mini"
	}
	body["messages"] = messages

	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal openai request: %w", err)
	}

	endpoint := p.BaseURL
	if endpoint == "" {
		endpoint = openAIChatURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai api call failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read openai response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai api returned status %d: %s", res.StatusCode, string(resBody))
	}

	var response openAIResponse
	if err := json.Unmarshal(resBody, &response); err != nil {
		return "", fmt.Errorf("failed to decode openai response: %w", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("openai api error: %s - %s", response.Error.Type, response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai api: %s", string(resBody))
	}
	return response.Choices[0].Message.Content, nil
}
