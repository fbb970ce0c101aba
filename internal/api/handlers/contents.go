package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/contentspy/contentspy/internal/storage"
)

// GetContents handles GET /api/contents. Supported query parameters:
// source_id, category, sentiment, language, limit, offset.
func GetContents(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()

		filter := storage.ContentFilter{
			Category:  q.Get("category"),
			Sentiment: q.Get("sentiment"),
			Language:  q.Get("language"),
		}

		if v := q.Get("source_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "source_id must be an integer")
				return
			}
			filter.SourceID = id
		}
		filter.Limit = parseIntParam(q.Get("limit"))
		filter.Offset = parseIntParam(q.Get("offset"))

		items, err := store.ListContents(ctx, filter)
		if err != nil {
			slog.Error("failed to list contents", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list contents")
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

// GetContent handles GET /api/contents/{id}.
func GetContent(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

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

		writeJSON(w, http.StatusOK, item)
	}
}

// SearchContents handles GET /api/search?q=<query>. It runs a full-text
// search over stored content titles and previews.
func SearchContents(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		query := r.URL.Query().Get("q")
		if query == "" {
			writeError(w, http.StatusBadRequest, "q parameter is required")
			return
		}
		limit := parseIntParam(r.URL.Query().Get("limit"))

		results, err := store.SearchContents(ctx, query, limit)
		if err != nil {
			slog.Error("search failed", "query", query, "error", err)
			writeError(w, http.StatusInternalServerError, "Search failed")
			return
		}

		writeJSON(w, http.StatusOK, results)
	}
}

// GetStats handles GET /api/stats. It returns content counts grouped by
// category and by sentiment.
func GetStats(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		byCategory, err := store.CountsByCategory(ctx)
		if err != nil {
			slog.Error("failed to count by category", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to compute stats")
			return
		}

		bySentiment, err := store.CountsBySentiment(ctx)
		if err != nil {
			slog.Error("failed to count by sentiment", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to compute stats")
			return
		}

		total := 0
		for _, n := range byCategory {
			total += n
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"total":      total,
			"categories": byCategory,
			"sentiments": bySentiment,
		})
	}
}

// parseIntParam parses an optional positive integer query parameter,
// returning 0 (meaning "use the default") when absent or malformed.
func parseIntParam(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
