package handlers

import (
	"log/slog"
	"net/http"

	"github.com/contentspy/contentspy/internal/storage"
)

// GetActivity handles GET /api/activity. It returns the rolling activity
// log, newest first.
func GetActivity(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit := parseIntParam(r.URL.Query().Get("limit"))

		entries, err := store.RecentActivity(ctx, limit)
		if err != nil {
			slog.Error("failed to get activity", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get activity")
			return
		}

		writeJSON(w, http.StatusOK, entries)
	}
}
