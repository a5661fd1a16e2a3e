package utils

import (
	"strings"
	"testing"
)

func TestCleanMarkdownStripsFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"markdown fence", "```markdown\n# Title\n```", "# Title"},
		{"generic fence", "```\n# Title\n```", "# Title"},
		{"no fence", "# Title", "# Title"},
		{"whitespace", "  # Title \n", "# Title"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanMarkdown(tc.input); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("# Run exp-1\n\nSome **output**.")
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if !strings.Contains(html, "<h1>Run exp-1</h1>") {
		t.Errorf("Expected heading in HTML, got %q", html)
	}
	if !strings.Contains(html, "<strong>output</strong>") {
		t.Errorf("Expected bold text in HTML, got %q", html)
	}
}
