package ai

import (
	"strings"
	"testing"
)

func TestDigestPrompt(t *testing.T) {
	items := []ContentEntry{
		{
			ID:          1,
			Title:       "Acme Launches Usage-Based Pricing",
			Source:      "Acme Blog",
			Category:    "Sales",
			PublishedAt: "2026-01-15",
			Preview:     "Acme moves from seat-based to usage-based pricing for all plans.",
		},
		{
			ID:          2,
			Title:       "Introducing The Acme Partner API",
			Source:      "Acme Blog",
			Category:    "Product",
			PublishedAt: "2026-01-16",
			Preview:     "A new API for integration partners with webhook support.",
		},
	}

	t.Run("returns non-empty prompts", func(t *testing.T) {
		systemPrompt, userPrompt := DigestPrompt(items, 5)

		if systemPrompt == "" {
			t.Error("expected non-empty system prompt")
		}
		if userPrompt == "" {
			t.Error("expected non-empty user prompt")
		}
	})

	t.Run("user prompt contains item fields", func(t *testing.T) {
		_, userPrompt := DigestPrompt(items, 5)

		for _, item := range items {
			if !strings.Contains(userPrompt, item.Title) {
				t.Errorf("user prompt should contain title %q", item.Title)
			}
			if !strings.Contains(userPrompt, item.Source) {
				t.Errorf("user prompt should contain source %q", item.Source)
			}
			if !strings.Contains(userPrompt, item.Category) {
				t.Errorf("user prompt should contain category %q", item.Category)
			}
			if !strings.Contains(userPrompt, item.Preview) {
				t.Errorf("user prompt should contain preview %q", item.Preview)
			}
		}
	})

	t.Run("system prompt contains digest instructions", func(t *testing.T) {
		systemPrompt, _ := DigestPrompt(items, 5)

		if !strings.Contains(systemPrompt, "5") {
			t.Error("system prompt should mention the insight limit")
		}
		if !strings.Contains(systemPrompt, "JSON") {
			t.Error("system prompt should mention JSON output format")
		}
	})

	t.Run("handles empty item list", func(t *testing.T) {
		systemPrompt, userPrompt := DigestPrompt(nil, 5)

		if systemPrompt == "" {
			t.Error("system prompt should be non-empty even with no items")
		}
		if userPrompt == "" {
			t.Error("user prompt should be non-empty even with no items")
		}
	})
}

func TestSummarizePrompt(t *testing.T) {
	title := "Acme Launches Usage-Based Pricing"
	source := "Acme Blog"
	content := "Acme announced a move from seat-based to usage-based pricing, effective March, for all plan tiers."

	t.Run("returns non-empty prompts", func(t *testing.T) {
		systemPrompt, userPrompt := SummarizePrompt(title, source, content)

		if systemPrompt == "" {
			t.Error("expected non-empty system prompt")
		}
		if userPrompt == "" {
			t.Error("expected non-empty user prompt")
		}
	})

	t.Run("user prompt contains title", func(t *testing.T) {
		_, userPrompt := SummarizePrompt(title, source, content)

		if !strings.Contains(userPrompt, title) {
			t.Errorf("user prompt should contain title %q", title)
		}
	})

	t.Run("user prompt contains source", func(t *testing.T) {
		_, userPrompt := SummarizePrompt(title, source, content)

		if !strings.Contains(userPrompt, source) {
			t.Errorf("user prompt should contain source %q", source)
		}
	})

	t.Run("user prompt contains content", func(t *testing.T) {
		_, userPrompt := SummarizePrompt(title, source, content)

		if !strings.Contains(userPrompt, content) {
			t.Errorf("user prompt should contain content")
		}
	})

	t.Run("system prompt contains summarization instructions", func(t *testing.T) {
		systemPrompt, _ := SummarizePrompt(title, source, content)

		if !strings.Contains(systemPrompt, "3-4 sentences") {
			t.Error("system prompt should mention 3-4 sentences")
		}
		if !strings.Contains(systemPrompt, "competitor") {
			t.Error("system prompt should mention the competitor framing")
		}
	})
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON array",
			input: `[{"title": "t", "detail": "d"}]`,
			want:  `[{"title": "t", "detail": "d"}]`,
		},
		{
			name:  "JSON wrapped in json code fence",
			input: "```json\n[{\"title\": \"t\", \"detail\": \"d\"}]\n```",
			want:  `[{"title": "t", "detail": "d"}]`,
		},
		{
			name:  "JSON wrapped in plain code fence",
			input: "```\n[{\"title\": \"t\", \"detail\": \"d\"}]\n```",
			want:  `[{"title": "t", "detail": "d"}]`,
		},
		{
			name:  "JSON with surrounding whitespace",
			input: "  \n  [{\"title\": \"t\"}]  \n  ",
			want:  `[{"title": "t"}]`,
		},
		{
			name:  "code fence with extra whitespace",
			input: "```json\n\n  [{\"title\": \"t\"}]\n\n```",
			want:  `[{"title": "t"}]`,
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if got != tt.want {
				t.Errorf("extractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
