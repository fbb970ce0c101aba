package models

import "time"

// Source represents a monitored competitor site. A source always has a page
// URL; FeedURL is filled in once a feed has been configured or discovered.
type Source struct {
	ID            int64      `json:"id"`
	Label         string     `json:"label"`
	URL           string     `json:"url"`
	FeedURL       string     `json:"feed_url,omitempty"`
	IsActive      bool       `json:"is_active"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
	LastContentAt *time.Time `json:"last_content_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	ContentCount  int        `json:"content_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ContentType describes the kind of content item an extractor found.
type ContentType string

const (
	TypeArticle   ContentType = "article"
	TypeNews      ContentType = "news"
	TypeGuide     ContentType = "guide"
	TypeCaseStudy ContentType = "case_study"
	TypeReview    ContentType = "review"
	TypeInterview ContentType = "interview"
	TypeAnalysis  ContentType = "analysis"
	TypeOpinion   ContentType = "opinion"
	TypeFeed      ContentType = "feed"
	TypeBlogPost  ContentType = "blog_post"
)

// ContentCandidate is a content item proposed by an extractor, before
// novelty filtering and classification. Title and URL are required; the
// rest is best-effort.
type ContentCandidate struct {
	Title       string      `json:"title"`
	BodyPreview string      `json:"body_preview,omitempty"`
	URL         string      `json:"url"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	Author      string      `json:"author,omitempty"`
	Type        ContentType `json:"type"`
	Strategy    string      `json:"strategy,omitempty"`
}

// Sentiment is the coarse tone assigned to a content item.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// EnrichedContent is a candidate that survived novelty filtering, together
// with the classifier outputs and its fingerprint.
type EnrichedContent struct {
	ID          int64     `json:"id,omitempty"`
	SourceID    int64     `json:"source_id"`
	SourceLabel string    `json:"source_label,omitempty"`
	ContentCandidate
	Category    string    `json:"category"`
	Categories  []string  `json:"categories"`
	Confidence  float64   `json:"confidence"`
	Tags        []string  `json:"tags"`
	Sentiment   Sentiment `json:"sentiment"`
	Topics      []string  `json:"topics"`
	Language    string    `json:"language"`
	Fingerprint string    `json:"fingerprint"`
	WordCount   int       `json:"word_count"`
	ReadingTime int       `json:"reading_time_minutes"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// FeedItem is a normalized entry from an RSS or Atom feed.
type FeedItem struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Description string     `json:"description,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Author      string     `json:"author,omitempty"`
}

// FeedResult is the parsed representation of a whole feed.
type FeedResult struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Link        string     `json:"link,omitempty"`
	Items       []FeedItem `json:"items"`
}

// FeedRef is a feed advertised by a page's <link> elements, discovered
// during extraction.
type FeedRef struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Kind  string `json:"kind"` // "rss" or "atom"
}

// Summary is a cached AI-generated summary of one content item.
type Summary struct {
	ID        int64     `json:"id"`
	ContentID int64     `json:"content_id"`
	Summary   string    `json:"summary"`
	ModelUsed string    `json:"model_used"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity is one entry in the rolling activity log shown on the dashboard.
type Activity struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Kind      string    `json:"kind"` // "info", "content", "check", "error"
	CreatedAt time.Time `json:"created_at"`
}
