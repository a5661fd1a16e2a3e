package langfuse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Prompt type tags as used by the Langfuse prompts API.
const (
	PromptTypeText = "text"
	PromptTypeChat = "chat"
)

// ChatMessage is one role/content pair of a chat-structured prompt. The same
// shape is sent to the LLM provider after rendering.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is a named, versioned template stored in Langfuse. The Prompt field
// holds either a plain string (text type) or an array of role/content pairs
// (chat type), so it is kept raw until the caller asks for messages.
type Prompt struct {
	ID      string                 `json:"id,omitempty"`
	Name    string                 `json:"name"`
	Version int                    `json:"version,omitempty"`
	Type    string                 `json:"type,omitempty"`
	Prompt  json.RawMessage        `json:"prompt"`
	Config  map[string]interface{} `json:"config,omitempty"`
	Labels  []string               `json:"labels,omitempty"`
	Tags    []string               `json:"tags,omitempty"`
}

// Messages returns the template as an ordered message list. A text prompt
// becomes a single user message.
func (p *Prompt) Messages() ([]ChatMessage, error) {
	if p.Type == PromptTypeChat {
		var msgs []ChatMessage
		if err := json.Unmarshal(p.Prompt, &msgs); err != nil {
			return nil, fmt.Errorf("failed to decode chat prompt %q: %w", p.Name, err)
		}
		return msgs, nil
	}
	var text string
	if err := json.Unmarshal(p.Prompt, &text); err != nil {
		return nil, fmt.Errorf("failed to decode text prompt %q: %w", p.Name, err)
	}
	return []ChatMessage{{Role: "user", Content: text}}, nil
}

// CreatePromptRequest creates a prompt, or registers a new version under an
// existing name. Prompt must be a string for text type or []ChatMessage for
// chat type.
type CreatePromptRequest struct {
	Name          string                 `json:"name"`
	Type          string                 `json:"type,omitempty"`
	Prompt        interface{}            `json:"prompt"`
	Config        map[string]interface{} `json:"config,omitempty"`
	Labels        []string               `json:"labels,omitempty"`
	CommitMessage string                 `json:"commitMessage,omitempty"`
}

// CreatePrompt registers the prompt in Langfuse and returns the stored
// version. Remote failures propagate unchanged.
func (c *Client) CreatePrompt(ctx context.Context, req CreatePromptRequest) (*Prompt, error) {
	var created Prompt
	if err := c.do(ctx, http.MethodPost, "/api/public/v2/prompts", nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetPrompt fetches a prompt by name. version 0 means the latest
// production-labelled version, mirroring the API default.
func (c *Client) GetPrompt(ctx context.Context, name string, version int) (*Prompt, error) {
	query := url.Values{}
	if version > 0 {
		query.Set("version", strconv.Itoa(version))
	}
	var prompt Prompt
	if err := c.do(ctx, http.MethodGet, "/api/public/v2/prompts/"+url.PathEscape(name), query, nil, &prompt); err != nil {
		return nil, err
	}
	return &prompt, nil
}
