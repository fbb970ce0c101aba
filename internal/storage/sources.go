package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/contentspy/contentspy/internal/models"
)

// CreateSource inserts a new monitored source and returns it with its
// assigned ID. The URL must be unique across sources.
func (s *Store) CreateSource(ctx context.Context, label, url string) (*models.Source, error) {
	label = strings.TrimSpace(label)
	url = strings.TrimSpace(url)
	if label == "" || url == "" {
		return nil, fmt.Errorf("source label and url are required")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sources (label, url) VALUES (?, ?)`, label, url)
	if err != nil {
		return nil, fmt.Errorf("creating source %q: %w", label, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting source id: %w", err)
	}
	return s.GetSource(ctx, id)
}

// GetSource returns the source with the given ID.
// Returns nil, ErrNotFound if no matching row exists.
func (s *Store) GetSource(ctx context.Context, id int64) (*models.Source, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, label, url, feed_url, is_active, last_checked_at,
		        last_content_at, last_error, content_count, created_at
		 FROM sources WHERE id = ?`, id)

	src, err := scanSource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting source %d: %w", id, err)
	}
	return src, nil
}

// GetAllSources returns all sources regardless of active status, ordered
// by label.
func (s *Store) GetAllSources(ctx context.Context) ([]models.Source, error) {
	return s.querySources(ctx,
		`SELECT id, label, url, feed_url, is_active, last_checked_at,
		        last_content_at, last_error, content_count, created_at
		 FROM sources ORDER BY label`)
}

// GetActiveSources returns all sources where is_active = 1, ordered by label.
func (s *Store) GetActiveSources(ctx context.Context) ([]models.Source, error) {
	return s.querySources(ctx,
		`SELECT id, label, url, feed_url, is_active, last_checked_at,
		        last_content_at, last_error, content_count, created_at
		 FROM sources WHERE is_active = 1 ORDER BY label`)
}

// ToggleSource sets the is_active flag for the given source ID.
// It returns ErrNotFound if no source matches the given ID.
func (s *Store) ToggleSource(ctx context.Context, id int64, active bool) error {
	activeInt := 0
	if active {
		activeInt = 1
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sources SET is_active = ? WHERE id = ?`, activeInt, id)
	if err != nil {
		return fmt.Errorf("toggling source %d: %w", id, err)
	}
	return checkAffected(res, id)
}

// SetFeedURL records a discovered or user-provided feed URL for the source.
func (s *Store) SetFeedURL(ctx context.Context, id int64, feedURL string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sources SET feed_url = ? WHERE id = ?`, nullableString(feedURL), id)
	if err != nil {
		return fmt.Errorf("setting feed url for source %d: %w", id, err)
	}
	return checkAffected(res, id)
}

// UpdateCheckStatus records the outcome of a monitoring check: the check
// timestamp, the last error (empty on success), and, when newItems > 0, the
// last-content timestamp and running content count.
func (s *Store) UpdateCheckStatus(ctx context.Context, id int64, checkErr string, newItems int) error {
	var res sql.Result
	var err error
	if newItems > 0 {
		res, err = s.db.ExecContext(ctx,
			`UPDATE sources
			 SET last_checked_at = datetime('now'),
			     last_content_at = datetime('now'),
			     last_error      = ?,
			     content_count   = content_count + ?
			 WHERE id = ?`, nullableString(checkErr), newItems, id)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE sources
			 SET last_checked_at = datetime('now'),
			     last_error      = ?
			 WHERE id = ?`, nullableString(checkErr), id)
	}
	if err != nil {
		return fmt.Errorf("updating check status for source %d: %w", id, err)
	}
	return checkAffected(res, id)
}

// DeleteSource removes a source. Its fingerprint history, captured content,
// and tags are removed by foreign key cascade.
func (s *Store) DeleteSource(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting source %d: %w", id, err)
	}
	return checkAffected(res, id)
}

func checkAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected for source %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) querySources(ctx context.Context, query string) ([]models.Source, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	sources := []models.Source{}
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning source row: %w", err)
		}
		sources = append(sources, *src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating source rows: %w", err)
	}
	return sources, nil
}

func scanSource(row scanner) (*models.Source, error) {
	var (
		src           models.Source
		feedURL       sql.NullString
		isActive      int
		lastCheckedAt sql.NullString
		lastContentAt sql.NullString
		lastError     sql.NullString
		createdAt     string
	)
	if err := row.Scan(
		&src.ID, &src.Label, &src.URL, &feedURL, &isActive,
		&lastCheckedAt, &lastContentAt, &lastError, &src.ContentCount, &createdAt,
	); err != nil {
		return nil, err
	}

	src.FeedURL = feedURL.String
	src.IsActive = isActive == 1
	src.LastError = lastError.String
	src.LastCheckedAt = parseTimePtr(nullStringToPtr(lastCheckedAt))
	src.LastContentAt = parseTimePtr(nullStringToPtr(lastContentAt))
	src.CreatedAt = parseTime(createdAt)
	return &src, nil
}
