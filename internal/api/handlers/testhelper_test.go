package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/contentspy/contentspy/internal/models"
	"github.com/contentspy/contentspy/internal/storage"
)

// newTestStore creates an in-memory SQLite store with migrations applied. It
// registers a cleanup function to close the database when the test
// completes.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	db, err := storage.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	return storage.NewStore(db)
}

// newTestSource registers a source and returns it.
func newTestSource(t *testing.T, store *storage.Store, label, url string) *models.Source {
	t.Helper()

	src, err := store.CreateSource(context.Background(), label, url)
	if err != nil {
		t.Fatalf("creating test source: %v", err)
	}
	return src
}

// seedContent stores one enriched content item for the given source and
// returns it with its ID backfilled.
func seedContent(t *testing.T, store *storage.Store, sourceID int64, title, url string) models.EnrichedContent {
	t.Helper()

	item := models.EnrichedContent{
		SourceID: sourceID,
		ContentCandidate: models.ContentCandidate{
			Title:       title,
			BodyPreview: "Preview text for " + title,
			URL:         url,
			Type:        models.TypeArticle,
			Strategy:    "article-selector",
		},
		Category:    "Product",
		Categories:  []string{"Product"},
		Confidence:  0.8,
		Tags:        []string{"launch"},
		Sentiment:   models.SentimentNeutral,
		Topics:      []string{"product"},
		Language:    "english",
		Fingerprint: "fp-" + title,
		WordCount:   120,
		ReadingTime: 1,
		FetchedAt:   time.Now().UTC(),
	}

	items := []models.EnrichedContent{item}
	if err := store.SaveContents(context.Background(), items, 0); err != nil {
		t.Fatalf("saving test content: %v", err)
	}
	return items[0]
}
