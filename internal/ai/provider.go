// Package ai generates competitive digests and content summaries through
// LLM providers.
package ai

import (
	"context"
	"fmt"
)

// AIProvider is the interface that all LLM providers must implement.
type AIProvider interface {
	// Digest distills recent competitor content into a short list of
	// competitive insights, most significant first.
	Digest(ctx context.Context, items []ContentEntry) ([]Insight, error)

	// Summarize generates a concise summary of one content item.
	Summarize(ctx context.Context, item ContentEntry) (string, error)
}

// NewProvider creates the appropriate provider based on config.
func NewProvider(cfg ProviderConfig) (AIProvider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model), nil
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
