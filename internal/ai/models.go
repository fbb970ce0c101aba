package ai

// ProviderConfig holds the configuration needed to create an AI provider.
type ProviderConfig struct {
	Provider string // "anthropic" | "openai"
	APIKey   string
	Model    string
}

// ContentEntry is a simplified content representation for AI prompts.
type ContentEntry struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	Category    string `json:"category"`
	PublishedAt string `json:"published_at"`
	Preview     string `json:"preview"`
	FullText    string `json:"full_text,omitempty"`
}

// Insight is a single observation from the competitive digest operation.
type Insight struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
