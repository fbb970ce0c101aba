package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/contentspy/contentspy/internal/ai"
	"github.com/contentspy/contentspy/internal/models"
	"github.com/contentspy/contentspy/internal/storage"
)

// defaultDigestItems caps how many recent items are fed into a digest.
const defaultDigestItems = 30

// ArticleExtractor fetches the readable body text of an article URL.
// Satisfied by feeds.Fetcher.
type ArticleExtractor interface {
	ExtractArticle(ctx context.Context, articleURL string) (string, error)
}

// GetDigest handles GET /api/digest. It feeds the most recent contents to
// the AI provider and returns a short list of competitive insights.
func GetDigest(store *storage.Store, provider ai.AIProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if provider == nil {
			writeError(w, http.StatusServiceUnavailable, "AI provider not configured")
			return
		}

		limit := parseIntParam(r.URL.Query().Get("limit"))
		if limit == 0 || limit > defaultDigestItems {
			limit = defaultDigestItems
		}

		items, err := store.ListContents(ctx, storage.ContentFilter{Limit: limit})
		if err != nil {
			slog.Error("failed to list contents for digest", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load contents")
			return
		}

		if len(items) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{
				"insights":   []ai.Insight{},
				"item_count": 0,
			})
			return
		}

		entries := make([]ai.ContentEntry, 0, len(items))
		for _, item := range items {
			entries = append(entries, toContentEntry(item))
		}

		insights, err := provider.Digest(ctx, entries)
		if err != nil {
			slog.Error("digest failed", "error", err)
			writeError(w, http.StatusBadGateway, "Digest failed: "+err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"insights":   insights,
			"item_count": len(entries),
		})
	}
}

// SummarizeContent handles POST /api/contents/{id}/summarize. Summaries are
// cached: a second call for the same content returns the stored summary
// without another AI round trip. Pass force=true to regenerate.
func SummarizeContent(store *storage.Store, provider ai.AIProvider, extractor ArticleExtractor, model string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if provider == nil {
			writeError(w, http.StatusServiceUnavailable, "AI provider not configured")
			return
		}

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		item, err := store.GetContent(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Content not found")
				return
			}
			slog.Error("failed to get content", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get content")
			return
		}

		force := r.URL.Query().Get("force") == "true"
		if !force {
			if cached, err := store.GetSummary(ctx, id); err == nil {
				writeJSON(w, http.StatusOK, cached)
				return
			} else if !errors.Is(err, storage.ErrNotFound) {
				slog.Error("failed to get summary", "content_id", id, "error", err)
				writeError(w, http.StatusInternalServerError, "Failed to get summary")
				return
			}
		}

		entry := toContentEntry(*item)
		if extractor != nil {
			fullText, err := extractor.ExtractArticle(ctx, item.URL)
			if err != nil {
				slog.Warn("article extraction failed, using preview", "url", item.URL, "error", err)
			} else {
				entry.FullText = fullText
			}
		}

		text, err := provider.Summarize(ctx, entry)
		if err != nil {
			slog.Error("summarize failed", "content_id", id, "error", err)
			writeError(w, http.StatusBadGateway, "Summarize failed: "+err.Error())
			return
		}

		summary := &models.Summary{
			ContentID: id,
			Summary:   text,
			ModelUsed: model,
		}
		if err := store.UpsertSummary(ctx, summary); err != nil {
			slog.Error("failed to save summary", "content_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save summary")
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}

// toContentEntry converts a stored content item into the shape the AI
// provider prompts expect.
func toContentEntry(item models.EnrichedContent) ai.ContentEntry {
	published := ""
	if item.PublishedAt != nil {
		published = item.PublishedAt.Format("2006-01-02")
	}

	return ai.ContentEntry{
		ID:          item.ID,
		Title:       item.Title,
		Source:      item.SourceLabel,
		Category:    item.Category,
		PublishedAt: published,
		Preview:     item.BodyPreview,
	}
}
