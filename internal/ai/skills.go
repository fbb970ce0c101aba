package ai

import (
	"fmt"
	"strings"
)

const digestSystemPromptTmpl = `You are a competitive intelligence analyst. Given a list of content recently published by competitors, identify up to %d notable developments a product team should know about. Look for launches, pricing changes, positioning shifts, and strategic moves. Return ONLY valid JSON: an array of objects with "title" (a short headline for the insight) and "detail" (two or three sentences explaining what happened and why it matters). Order by significance, most significant first. If the content contains nothing notable, return an empty array.`

const summarizeSystemPrompt = `You are a competitive intelligence analyst. Summarize the following competitor content in exactly 3-4 sentences. Focus on: what the competitor announced or published, the likely intent behind it, and what it signals about their direction. Be specific about products, features, and numbers mentioned. Do NOT include any prefix like "# Summary" or "Summary:" — start directly with the first sentence.`

// DigestPrompt builds the system and user prompts for the competitive
// digest operation.
func DigestPrompt(items []ContentEntry, maxInsights int) (systemPrompt string, userPrompt string) {
	systemPrompt = fmt.Sprintf(digestSystemPromptTmpl, maxInsights)

	var b strings.Builder
	b.WriteString("Recent Competitor Content:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. ID: %d | Title: %s | Source: %s | Category: %s | Published: %s | Preview: %s\n",
			i+1, item.ID, item.Title, item.Source, item.Category, item.PublishedAt, item.Preview)
	}

	userPrompt = b.String()
	return systemPrompt, userPrompt
}

// SummarizePrompt builds the system and user prompts for the content
// summarization operation.
func SummarizePrompt(title, source, content string) (systemPrompt string, userPrompt string) {
	systemPrompt = summarizeSystemPrompt

	var b strings.Builder
	fmt.Fprintf(&b, "Content Title: %s\n", title)
	fmt.Fprintf(&b, "Competitor: %s\n", source)
	b.WriteString("Content:\n")
	b.WriteString(content)

	userPrompt = b.String()
	return systemPrompt, userPrompt
}

// extractJSON strips markdown code fences from a string that may contain
// JSON wrapped in ```json ... ``` or ``` ... ``` blocks. This handles the
// common case where LLMs return JSON inside code fences.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Try ```json ... ``` first.
	if after, found := strings.CutPrefix(s, "```json"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	// Try plain ``` ... ```.
	if after, found := strings.CutPrefix(s, "```"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	return s
}
