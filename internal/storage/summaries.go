package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/contentspy/contentspy/internal/models"
)

// UpsertSummary inserts an AI summary for a content item or replaces the
// existing one.
func (s *Store) UpsertSummary(ctx context.Context, summary *models.Summary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (content_id, summary, model_used)
		 VALUES (?, ?, ?)
		 ON CONFLICT(content_id) DO UPDATE SET
			summary    = excluded.summary,
			model_used = excluded.model_used,
			created_at = datetime('now')`,
		summary.ContentID, summary.Summary, summary.ModelUsed,
	)
	if err != nil {
		return fmt.Errorf("upserting summary: %w", err)
	}
	return nil
}

// GetSummary returns the cached summary for the given content ID.
// Returns nil, ErrNotFound if no matching row exists.
func (s *Store) GetSummary(ctx context.Context, contentID int64) (*models.Summary, error) {
	var (
		summary   models.Summary
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content_id, summary, model_used, created_at
		 FROM summaries WHERE content_id = ?`, contentID,
	).Scan(&summary.ID, &summary.ContentID, &summary.Summary, &summary.ModelUsed, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting summary for content %d: %w", contentID, err)
	}
	summary.CreatedAt = parseTime(createdAt)
	return &summary, nil
}

// HasSummary returns true if a summary exists for the given content ID.
func (s *Store) HasSummary(ctx context.Context, contentID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM summaries WHERE content_id = ?)`, contentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking summary existence: %w", err)
	}
	return exists, nil
}
