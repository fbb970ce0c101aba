// Package monitor runs the content monitoring pipeline: extraction, novelty
// filtering against per-source fingerprint histories, classification, and
// persistence, plus the scheduler that checks sources on an interval.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/contentspy/contentspy/internal/classify"
	"github.com/contentspy/contentspy/internal/extract"
	"github.com/contentspy/contentspy/internal/feeds"
	"github.com/contentspy/contentspy/internal/fingerprint"
	"github.com/contentspy/contentspy/internal/models"
)

// ErrHistoryNotCommitted signals that new content was detected and returned
// to the caller, but persisting it (or its fingerprints) failed. The same
// items may be reported again on the next check.
var ErrHistoryNotCommitted = errors.New("content history not committed")

// ContentStore is the subset of the storage layer the pipeline needs.
type ContentStore interface {
	FingerprintHistory(ctx context.Context, sourceID int64) ([]string, error)
	AppendFingerprints(ctx context.Context, sourceID int64, values []string, cap int) error
	SaveContents(ctx context.Context, items []models.EnrichedContent, cap int) error
}

// Pipeline turns raw pages and feed payloads into enriched, deduplicated
// content for one check of one source.
type Pipeline struct {
	store          ContentStore
	orchestrator   *extract.Orchestrator
	fingerprintCap int
	contentCap     int
	now            func() time.Time
}

// NewPipeline creates a Pipeline persisting through store. Caps of zero or
// less fall back to the storage defaults.
func NewPipeline(store ContentStore, fingerprintCap, contentCap int) *Pipeline {
	return &Pipeline{
		store:          store,
		orchestrator:   extract.NewOrchestrator(),
		fingerprintCap: fingerprintCap,
		contentCap:     contentCap,
		now:            time.Now,
	}
}

// ProcessDocument runs the extractors over a fetched page, keeps the
// candidates not seen before for this source, enriches and persists them.
// Feeds advertised by the page are returned alongside for discovery.
//
// On storage failure the detected items are still returned, together with an
// error wrapping ErrHistoryNotCommitted.
func (p *Pipeline) ProcessDocument(ctx context.Context, source *models.Source, doc *goquery.Document, base *url.URL) ([]models.EnrichedContent, []models.FeedRef, error) {
	candidates := p.orchestrator.ExtractAll(doc, base)
	discovered := extract.DiscoverFeeds(doc, base)

	items, err := p.process(ctx, source, candidates)
	return items, discovered, err
}

// ProcessFeed parses a raw feed payload and runs its items through the same
// novelty filter and enrichment as page candidates.
func (p *Pipeline) ProcessFeed(ctx context.Context, source *models.Source, raw string) ([]models.EnrichedContent, error) {
	result, err := feeds.ParseFeed(raw)
	if err != nil {
		return nil, err
	}
	return p.process(ctx, source, feeds.Candidates(result))
}

// process applies the novelty filter, enriches the survivors, and commits
// content rows and fingerprints.
func (p *Pipeline) process(ctx context.Context, source *models.Source, candidates []models.ContentCandidate) ([]models.EnrichedContent, error) {
	if len(candidates) == 0 {
		return []models.EnrichedContent{}, nil
	}

	history, err := p.store.FingerprintHistory(ctx, source.ID)
	if err != nil {
		return nil, fmt.Errorf("loading fingerprint history for source %d: %w", source.ID, err)
	}

	fresh := fingerprint.FilterNew(candidates, history)
	if len(fresh) == 0 {
		return []models.EnrichedContent{}, nil
	}

	items := make([]models.EnrichedContent, 0, len(fresh))
	values := make([]string, 0, len(fresh))
	for _, c := range fresh {
		item := p.enrich(source, c)
		items = append(items, item)
		values = append(values, item.Fingerprint)
	}

	if err := p.store.SaveContents(ctx, items, p.contentCap); err != nil {
		return items, fmt.Errorf("%w: saving content for source %d: %v", ErrHistoryNotCommitted, source.ID, err)
	}
	if err := p.store.AppendFingerprints(ctx, source.ID, values, p.fingerprintCap); err != nil {
		return items, fmt.Errorf("%w: appending fingerprints for source %d: %v", ErrHistoryNotCommitted, source.ID, err)
	}

	return items, nil
}

// enrich attaches classification, sentiment, topics, language, reading
// metrics, and the fingerprint to one candidate.
func (p *Pipeline) enrich(source *models.Source, c models.ContentCandidate) models.EnrichedContent {
	text := c.Title + " " + c.BodyPreview
	result := classify.Classify(c.Title, c.BodyPreview)

	return models.EnrichedContent{
		SourceID:         source.ID,
		SourceLabel:      source.Label,
		ContentCandidate: c,
		Category:         result.Primary,
		Categories:       result.Categories,
		Confidence:       result.Confidence,
		Tags:             result.Tags,
		Sentiment:        classify.DetectSentiment(text),
		Topics:           classify.ExtractTopics(text),
		Language:         classify.DetectLanguage(text),
		Fingerprint:      fingerprint.Compute(c.Title, c.URL),
		WordCount:        classify.WordCount(text),
		ReadingTime:      classify.ReadingTime(text),
		FetchedAt:        p.now().UTC(),
	}
}
