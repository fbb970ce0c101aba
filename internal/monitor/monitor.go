package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/contentspy/contentspy/internal/models"
	"github.com/contentspy/contentspy/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Fetcher retrieves pages and feed payloads for source checks.
type Fetcher interface {
	FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error)
	FetchRaw(ctx context.Context, rawURL string) (string, error)
}

// Monitor schedules and runs checks of all active sources.
type Monitor struct {
	store         *storage.Store
	fetcher       Fetcher
	pipeline      *Pipeline
	interval      time.Duration
	maxConcurrent int
}

// New creates a Monitor checking active sources every interval, with at most
// maxConcurrent checks in flight.
func New(store *storage.Store, fetcher Fetcher, pipeline *Pipeline, interval time.Duration, maxConcurrent int) *Monitor {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Monitor{
		store:         store,
		fetcher:       fetcher,
		pipeline:      pipeline,
		interval:      interval,
		maxConcurrent: maxConcurrent,
	}
}

// Run checks all sources immediately and then on every tick until the
// context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	slog.Info("monitor started", "interval", m.interval, "max_concurrent", m.maxConcurrent)

	m.CheckAll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor stopped")
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// CheckAll checks every active source, bounded by maxConcurrent. Failures of
// individual sources are recorded on the source and do not stop the sweep.
func (m *Monitor) CheckAll(ctx context.Context) {
	sources, err := m.store.GetActiveSources(ctx)
	if err != nil {
		slog.Error("listing active sources", "error", err)
		return
	}
	if len(sources) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.maxConcurrent)

	for i := range sources {
		src := sources[i]
		g.Go(func() error {
			if _, err := m.CheckSource(ctx, &src); err != nil {
				slog.Warn("source check failed", "source", src.Label, "error", err)
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // per-source errors are handled above
}

// CheckSource checks one source for new content and returns the number of
// new items found. Sources with a configured feed URL are checked via the
// feed; the rest via page extraction. The check outcome is recorded on the
// source either way.
func (m *Monitor) CheckSource(ctx context.Context, src *models.Source) (int, error) {
	items, err := m.check(ctx, src)

	// Storage failed after detection: the items are real, report them, but
	// surface the commit failure.
	if err != nil && errors.Is(err, ErrHistoryNotCommitted) {
		slog.Warn("new content detected but not committed", "source", src.Label, "items", len(items), "error", err)
	} else if err != nil {
		if statusErr := m.store.UpdateCheckStatus(ctx, src.ID, err.Error(), 0); statusErr != nil {
			slog.Error("recording check failure", "source", src.Label, "error", statusErr)
		}
		m.logActivity(ctx, "error", fmt.Sprintf("check of %s failed: %v", src.Label, err))
		return 0, err
	}

	if statusErr := m.store.UpdateCheckStatus(ctx, src.ID, "", len(items)); statusErr != nil {
		slog.Error("recording check status", "source", src.Label, "error", statusErr)
	}

	if len(items) > 0 {
		slog.Info("new content found", "source", src.Label, "items", len(items))
		m.logActivity(ctx, "content", fmt.Sprintf("%d new items from %s", len(items), src.Label))
	}
	return len(items), err
}

func (m *Monitor) check(ctx context.Context, src *models.Source) ([]models.EnrichedContent, error) {
	if src.FeedURL != "" {
		raw, err := m.fetcher.FetchRaw(ctx, src.FeedURL)
		if err != nil {
			return nil, err
		}
		return m.pipeline.ProcessFeed(ctx, src, raw)
	}

	doc, base, err := m.fetcher.FetchDocument(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	items, discovered, err := m.pipeline.ProcessDocument(ctx, src, doc, base)

	// Remember the first advertised feed so future checks use it.
	if len(discovered) > 0 {
		if feedErr := m.store.SetFeedURL(ctx, src.ID, discovered[0].URL); feedErr != nil {
			slog.Warn("recording discovered feed", "source", src.Label, "error", feedErr)
		} else {
			slog.Info("discovered feed", "source", src.Label, "feed_url", discovered[0].URL)
			m.logActivity(ctx, "info", fmt.Sprintf("discovered feed for %s", src.Label))
		}
	}

	return items, err
}

func (m *Monitor) logActivity(ctx context.Context, kind, text string) {
	if err := m.store.LogActivity(ctx, kind, text); err != nil {
		slog.Error("logging activity", "error", err)
	}
}
