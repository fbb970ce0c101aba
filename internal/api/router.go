package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contentspy/contentspy/internal/ai"
	"github.com/contentspy/contentspy/internal/api/handlers"
	"github.com/contentspy/contentspy/internal/feeds"
	"github.com/contentspy/contentspy/internal/storage"
)

// NewRouter creates and configures the HTTP router with all API routes.
// checker runs on-demand source checks; model names the AI model recorded
// with cached summaries.
func NewRouter(store *storage.Store, aiProvider ai.AIProvider, fetcher *feeds.Fetcher, checker handlers.SourceChecker, model string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	r.Route("/api", func(api chi.Router) {
		api.Get("/sources", handlers.GetSources(store))
		api.Post("/sources", handlers.CreateSource(store))
		api.Put("/sources/{id}", handlers.ToggleSource(store))
		api.Delete("/sources/{id}", handlers.DeleteSource(store))
		api.Post("/sources/{id}/check", handlers.CheckSourceNow(store, checker))

		api.Get("/contents", handlers.GetContents(store))
		api.Get("/contents/{id}", handlers.GetContent(store))
		api.Post("/contents/{id}/summarize", handlers.SummarizeContent(store, aiProvider, fetcher, model))

		api.Get("/search", handlers.SearchContents(store))
		api.Get("/stats", handlers.GetStats(store))
		api.Get("/tags", handlers.GetTags(store))
		api.Get("/tags/{tag}", handlers.GetContentsByTag(store))
		api.Get("/activity", handlers.GetActivity(store))

		api.Get("/digest", handlers.GetDigest(store, aiProvider))
		api.Get("/extract", handlers.PreviewExtraction(fetcher))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})

	return r
}
