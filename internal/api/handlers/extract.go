package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/contentspy/contentspy/internal/extract"
	"github.com/contentspy/contentspy/internal/models"
)

// DocumentFetcher fetches a page and parses it into a goquery document.
// Satisfied by feeds.Fetcher.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error)
}

// PreviewExtraction handles GET /api/extract?url=<encoded-url>. It fetches
// the page, runs the extraction strategies against it, and returns the
// candidates and any advertised feeds without persisting anything. Useful
// for vetting a competitor page before adding it as a source.
func PreviewExtraction(fetcher DocumentFetcher) http.HandlerFunc {
	orchestrator := extract.NewOrchestrator()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		targetURL := r.URL.Query().Get("url")
		if targetURL == "" {
			writeError(w, http.StatusBadRequest, "url parameter is required")
			return
		}

		parsed, err := url.Parse(targetURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			writeError(w, http.StatusBadRequest, "url must be a valid HTTP or HTTPS URL")
			return
		}

		doc, base, err := fetcher.FetchDocument(ctx, targetURL)
		if err != nil {
			slog.Warn("extract preview fetch failed", "url", targetURL, "error", err)
			writeError(w, http.StatusBadGateway, "Failed to fetch page")
			return
		}

		candidates := orchestrator.ExtractAll(doc, base)
		feedRefs := extract.DiscoverFeeds(doc, base)
		if candidates == nil {
			candidates = []models.ContentCandidate{}
		}
		if feedRefs == nil {
			feedRefs = []models.FeedRef{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"url":        base.String(),
			"candidates": candidates,
			"feeds":      feedRefs,
		})
	}
}
