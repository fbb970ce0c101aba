package storage

import (
	"context"
	"fmt"

	"github.com/contentspy/contentspy/internal/models"
)

// DefaultActivityCap is the number of activity log entries retained.
const DefaultActivityCap = 200

// LogActivity appends an entry to the rolling activity log and evicts the
// oldest entries beyond DefaultActivityCap.
func (s *Store) LogActivity(ctx context.Context, kind, text string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning activity transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO activity (kind, text) VALUES (?, ?)`, kind, text); err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM activity
		 WHERE id NOT IN (
		     SELECT id FROM activity ORDER BY id DESC LIMIT ?
		 )`, DefaultActivityCap); err != nil {
		return fmt.Errorf("evicting old activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing activity transaction: %w", err)
	}
	return nil
}

// RecentActivity returns the most recent activity log entries, newest first
// and limited to the specified count.
func (s *Store) RecentActivity(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, text, created_at
		 FROM activity
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	defer rows.Close()

	entries := []models.Activity{}
	for rows.Next() {
		var (
			a         models.Activity
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.Kind, &a.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		a.CreatedAt = parseTime(createdAt)
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}
	return entries, nil
}
