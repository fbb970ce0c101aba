package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/contentspy/contentspy/internal/models"
	"github.com/contentspy/contentspy/internal/storage"
)

// SourceChecker runs an on-demand check of a single source. Satisfied by
// monitor.Monitor.
type SourceChecker interface {
	CheckSource(ctx context.Context, src *models.Source) (int, error)
}

// GetSources handles GET /api/sources. It returns all monitored sources.
func GetSources(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sources, err := store.GetAllSources(ctx)
		if err != nil {
			slog.Error("failed to get sources", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get sources")
			return
		}

		writeJSON(w, http.StatusOK, sources)
	}
}

// CreateSource handles POST /api/sources. It registers a new competitor
// source from a label and page URL.
func CreateSource(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body struct {
			Label string `json:"label"`
			URL   string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		src, err := store.CreateSource(ctx, body.Label, body.URL)
		if err != nil {
			if strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "UNIQUE") {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("failed to create source", "url", body.URL, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create source")
			return
		}

		writeJSON(w, http.StatusCreated, src)
	}
}

// ToggleSource handles PUT /api/sources/{id}. It toggles the is_active flag
// for a source.
func ToggleSource(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var body struct {
			IsActive bool `json:"is_active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if err := store.ToggleSource(ctx, id, body.IsActive); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Source not found")
				return
			}
			slog.Error("failed to toggle source", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to toggle source")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

// DeleteSource handles DELETE /api/sources/{id}. Deleting a source also
// removes its contents and fingerprint history.
func DeleteSource(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.DeleteSource(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Source not found")
				return
			}
			slog.Error("failed to delete source", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete source")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// CheckSourceNow handles POST /api/sources/{id}/check. It runs a check of
// the source immediately instead of waiting for the next scheduled sweep.
func CheckSourceNow(store *storage.Store, checker SourceChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		src, err := store.GetSource(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Source not found")
				return
			}
			slog.Error("failed to get source", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get source")
			return
		}

		newItems, err := checker.CheckSource(ctx, src)
		if err != nil {
			slog.Error("manual check failed", "source", src.Label, "error", err)
			writeError(w, http.StatusBadGateway, "Check failed: "+err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "checked",
			"new_items": newItems,
		})
	}
}
