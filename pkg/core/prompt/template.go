package prompt

import (
	"fmt"
	"regexp"

	"prompt_ops/pkg/core/langfuse"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Render substitutes {placeholder} occurrences in template with the matching
// input values. Every placeholder present in the template must be supplied;
// a missing one is an error rather than a literal left in the output. Inputs
// without a matching placeholder are ignored.
func Render(template string, inputs map[string]interface{}) (string, error) {
	var missing string
	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := inputs[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		return fmt.Sprintf("%v", value)
	})
	if missing != "" {
		return "", fmt.Errorf("unresolved placeholder {%s} in template", missing)
	}
	return rendered, nil
}

// RenderMessages renders a chat template message by message, keeping roles
// and order intact.
func RenderMessages(messages []langfuse.ChatMessage, inputs map[string]interface{}) ([]langfuse.ChatMessage, error) {
	rendered := make([]langfuse.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		content, err := Render(msg.Content, inputs)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s message: %w", msg.Role, err)
		}
		rendered = append(rendered, langfuse.ChatMessage{Role: msg.Role, Content: content})
	}
	return rendered, nil
}
