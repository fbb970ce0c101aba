package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contentspy/contentspy/internal/storage"
)

// GetTags handles GET /api/tags. It returns all tags with their usage
// counts, most used first.
func GetTags(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tags, err := store.ListTags(ctx)
		if err != nil {
			slog.Error("failed to list tags", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list tags")
			return
		}

		writeJSON(w, http.StatusOK, tags)
	}
}

// GetContentsByTag handles GET /api/tags/{tag}. It returns the contents
// carrying the given tag, newest first.
func GetContentsByTag(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tag := chi.URLParam(r, "tag")
		if tag == "" {
			writeError(w, http.StatusBadRequest, "tag is required")
			return
		}
		limit := parseIntParam(r.URL.Query().Get("limit"))

		items, err := store.ListContentsByTag(ctx, tag, limit)
		if err != nil {
			slog.Error("failed to list contents by tag", "tag", tag, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list contents")
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}
