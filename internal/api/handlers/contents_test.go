package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/contentspy/contentspy/internal/models"
)

func TestGetContents(t *testing.T) {
	store := newTestStore(t)
	src := newTestSource(t, store, "Acme Blog", "https://acme.example.com/blog")
	other := newTestSource(t, store, "Globex News", "https://globex.example.com/news")

	seedContent(t, store, src.ID, "First Post", "https://acme.example.com/blog/first")
	seedContent(t, store, src.ID, "Second Post", "https://acme.example.com/blog/second")
	seedContent(t, store, other.ID, "Globex Post", "https://globex.example.com/news/one")

	t.Run("returns all contents newest first", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/contents", nil)
		w := httptest.NewRecorder()

		GetContents(store).ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}

		var items []models.EnrichedContent
		if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("got %d items, want 3", len(items))
		}
		if items[0].Title != "Globex Post" {
			t.Errorf("got first item %q, want newest first", items[0].Title)
		}
	})

	t.Run("filters by source", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/contents?source_id="+strconv.FormatInt(src.ID, 10), nil)
		w := httptest.NewRecorder()

		GetContents(store).ServeHTTP(w, r)

		var items []models.EnrichedContent
		if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("got %d items, want 2", len(items))
		}
		for _, item := range items {
			if item.SourceID != src.ID {
				t.Errorf("item %q has source %d, want %d", item.Title, item.SourceID, src.ID)
			}
		}
	})

	t.Run("rejects malformed source_id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/contents?source_id=abc", nil)
		w := httptest.NewRecorder()

		GetContents(store).ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/contents?limit=1", nil)
		w := httptest.NewRecorder()

		GetContents(store).ServeHTTP(w, r)

		var items []models.EnrichedContent
		if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("got %d items, want 1", len(items))
		}
	})
}

func TestGetContent(t *testing.T) {
	store := newTestStore(t)
	src := newTestSource(t, store, "Acme Blog", "https://acme.example.com/blog")
	item := seedContent(t, store, src.ID, "First Post", "https://acme.example.com/blog/first")
	idStr := strconv.FormatInt(item.ID, 10)

	t.Run("returns content with tags", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/contents/"+idStr, nil)
		r = withURLParam(r, "id", idStr)
		w := httptest.NewRecorder()

		GetContent(store).ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}

		var got models.EnrichedContent
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if got.Title != "First Post" {
			t.Errorf("got title %q, want %q", got.Title, "First Post")
		}
		if got.SourceLabel != "Acme Blog" {
			t.Errorf("got source label %q, want %q", got.SourceLabel, "Acme Blog")
		}
		if len(got.Tags) != 1 || got.Tags[0] != "launch" {
			t.Errorf("got tags %v, want [launch]", got.Tags)
		}
	})

	t.Run("not found", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/contents/99999", nil)
		r = withURLParam(r, "id", "99999")
		w := httptest.NewRecorder()

		GetContent(store).ServeHTTP(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestSearchContents(t *testing.T) {
	store := newTestStore(t)
	src := newTestSource(t, store, "Acme Blog", "https://acme.example.com/blog")
	seedContent(t, store, src.ID, "Kubernetes Deployment Guide", "https://acme.example.com/blog/k8s")
	seedContent(t, store, src.ID, "Pricing Update", "https://acme.example.com/blog/pricing")

	t.Run("finds matching content", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/search?q=kubernetes", nil)
		w := httptest.NewRecorder()

		SearchContents(store).ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}

		var items []models.EnrichedContent
		if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("got %d results, want 1", len(items))
		}
		if items[0].Title != "Kubernetes Deployment Guide" {
			t.Errorf("got result %q", items[0].Title)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		w := httptest.NewRecorder()

		SearchContents(store).ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestGetStats(t *testing.T) {
	store := newTestStore(t)
	src := newTestSource(t, store, "Acme Blog", "https://acme.example.com/blog")
	seedContent(t, store, src.ID, "First Post", "https://acme.example.com/blog/first")
	seedContent(t, store, src.ID, "Second Post", "https://acme.example.com/blog/second")

	r := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()

	GetStats(store).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Total      int            `json:"total"`
		Categories map[string]int `json:"categories"`
		Sentiments map[string]int `json:"sentiments"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Total != 2 {
		t.Errorf("got total %d, want 2", resp.Total)
	}
	if resp.Categories["Product"] != 2 {
		t.Errorf("got %d Product items, want 2", resp.Categories["Product"])
	}
	if resp.Sentiments["neutral"] != 2 {
		t.Errorf("got %d neutral items, want 2", resp.Sentiments["neutral"])
	}
}
