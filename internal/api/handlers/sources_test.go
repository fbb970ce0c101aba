package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/contentspy/contentspy/internal/models"
	"github.com/contentspy/contentspy/internal/storage"
)

// withURLParam sets a chi URL param on the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetSources(t *testing.T) {
	store := newTestStore(t)
	newTestSource(t, store, "Acme Blog", "https://acme.example.com/blog")
	newTestSource(t, store, "Globex News", "https://globex.example.com/news")

	r := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	w := httptest.NewRecorder()

	GetSources(store).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	var sources []models.Source
	if err := json.NewDecoder(w.Body).Decode(&sources); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	for _, s := range sources {
		if s.ID == 0 {
			t.Error("source ID should not be zero")
		}
		if s.Label == "" {
			t.Error("source label should not be empty")
		}
		if s.URL == "" {
			t.Error("source url should not be empty")
		}
	}
}

func TestCreateSource(t *testing.T) {
	t.Run("creates source", func(t *testing.T) {
		store := newTestStore(t)

		body := `{"label": "Acme Blog", "url": "https://acme.example.com/blog"}`
		r := httptest.NewRequest(http.MethodPost, "/api/sources", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		CreateSource(store).ServeHTTP(w, r)

		if w.Code != http.StatusCreated {
			t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
		}

		var src models.Source
		if err := json.NewDecoder(w.Body).Decode(&src); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if src.ID == 0 {
			t.Error("created source should have an ID")
		}
		if !src.IsActive {
			t.Error("created source should be active")
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		store := newTestStore(t)

		body := `{"label": "", "url": ""}`
		r := httptest.NewRequest(http.MethodPost, "/api/sources", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		CreateSource(store).ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		store := newTestStore(t)

		r := httptest.NewRequest(http.MethodPost, "/api/sources", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()

		CreateSource(store).ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestToggleSource(t *testing.T) {
	store := newTestStore(t)
	src := newTestSource(t, store, "Acme Blog", "https://acme.example.com/blog")
	idStr := strconv.FormatInt(src.ID, 10)

	t.Run("deactivate source", func(t *testing.T) {
		body := `{"is_active": false}`
		r := httptest.NewRequest(http.MethodPut, "/api/sources/"+idStr, bytes.NewBufferString(body))
		r = withURLParam(r, "id", idStr)
		w := httptest.NewRecorder()

		ToggleSource(store).ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		got, err := store.GetSource(context.Background(), src.ID)
		if err != nil {
			t.Fatalf("getting source: %v", err)
		}
		if got.IsActive {
			t.Error("source should be inactive after toggle")
		}
	})

	t.Run("reactivate source", func(t *testing.T) {
		body := `{"is_active": true}`
		r := httptest.NewRequest(http.MethodPut, "/api/sources/"+idStr, bytes.NewBufferString(body))
		r = withURLParam(r, "id", idStr)
		w := httptest.NewRecorder()

		ToggleSource(store).ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("not found", func(t *testing.T) {
		body := `{"is_active": true}`
		r := httptest.NewRequest(http.MethodPut, "/api/sources/99999", bytes.NewBufferString(body))
		r = withURLParam(r, "id", "99999")
		w := httptest.NewRecorder()

		ToggleSource(store).ServeHTTP(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		body := `{"is_active": true}`
		r := httptest.NewRequest(http.MethodPut, "/api/sources/abc", bytes.NewBufferString(body))
		r = withURLParam(r, "id", "abc")
		w := httptest.NewRecorder()

		ToggleSource(store).ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestDeleteSource(t *testing.T) {
	store := newTestStore(t)
	src := newTestSource(t, store, "Acme Blog", "https://acme.example.com/blog")
	idStr := strconv.FormatInt(src.ID, 10)

	r := httptest.NewRequest(http.MethodDelete, "/api/sources/"+idStr, nil)
	r = withURLParam(r, "id", idStr)
	w := httptest.NewRecorder()

	DeleteSource(store).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	if _, err := store.GetSource(context.Background(), src.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("source should be gone after delete, got err %v", err)
	}

	t.Run("not found", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodDelete, "/api/sources/99999", nil)
		r = withURLParam(r, "id", "99999")
		w := httptest.NewRecorder()

		DeleteSource(store).ServeHTTP(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

// fakeChecker records the source it was asked to check.
type fakeChecker struct {
	newItems int
	err      error
	checked  *models.Source
}

func (f *fakeChecker) CheckSource(ctx context.Context, src *models.Source) (int, error) {
	f.checked = src
	return f.newItems, f.err
}

func TestCheckSourceNow(t *testing.T) {
	store := newTestStore(t)
	src := newTestSource(t, store, "Acme Blog", "https://acme.example.com/blog")
	idStr := strconv.FormatInt(src.ID, 10)

	t.Run("runs check and reports new items", func(t *testing.T) {
		checker := &fakeChecker{newItems: 3}

		r := httptest.NewRequest(http.MethodPost, "/api/sources/"+idStr+"/check", nil)
		r = withURLParam(r, "id", idStr)
		w := httptest.NewRecorder()

		CheckSourceNow(store, checker).ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}
		if checker.checked == nil || checker.checked.ID != src.ID {
			t.Error("checker should have been called with the source")
		}

		var resp struct {
			Status   string `json:"status"`
			NewItems int    `json:"new_items"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.NewItems != 3 {
			t.Errorf("got %d new items, want 3", resp.NewItems)
		}
	})

	t.Run("check failure surfaces as bad gateway", func(t *testing.T) {
		checker := &fakeChecker{err: errors.New("fetch failed")}

		r := httptest.NewRequest(http.MethodPost, "/api/sources/"+idStr+"/check", nil)
		r = withURLParam(r, "id", idStr)
		w := httptest.NewRecorder()

		CheckSourceNow(store, checker).ServeHTTP(w, r)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusBadGateway)
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		checker := &fakeChecker{}

		r := httptest.NewRequest(http.MethodPost, "/api/sources/99999/check", nil)
		r = withURLParam(r, "id", "99999")
		w := httptest.NewRecorder()

		CheckSourceNow(store, checker).ServeHTTP(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
