package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/contentspy/contentspy/internal/models"
)

// DefaultContentCap is the number of content rows retained per source when
// no explicit cap is configured.
const DefaultContentCap = 1000

// ContentFilter narrows ListContents results. Zero values mean no filter.
type ContentFilter struct {
	SourceID  int64
	Category  string
	Sentiment string
	Language  string
	Limit     int
	Offset    int
}

// SaveContents inserts enriched content rows inside a single transaction and
// evicts the oldest rows per source beyond the cap. A cap of zero or less
// falls back to DefaultContentCap. Inserted rows get their IDs filled in.
func (s *Store) SaveContents(ctx context.Context, items []models.EnrichedContent, cap int) error {
	if len(items) == 0 {
		return nil
	}
	if cap <= 0 {
		cap = DefaultContentCap
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning content transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO contents
			(source_id, title, url, body_preview, author, type, strategy,
			 category, categories, confidence, sentiment, topics, language,
			 fingerprint, word_count, reading_time_minutes, published_at, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing content insert: %w", err)
	}
	defer stmt.Close()

	tagStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO content_tags (content_id, tag) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing tag insert: %w", err)
	}
	defer tagStmt.Close()

	touched := make(map[int64]bool)
	for i := range items {
		item := &items[i]

		var publishedAt *string
		if item.PublishedAt != nil {
			v := item.PublishedAt.UTC().Format("2006-01-02 15:04:05")
			publishedAt = &v
		}

		res, err := stmt.ExecContext(ctx,
			item.SourceID, item.Title, item.URL,
			nullableString(item.BodyPreview), nullableString(item.Author),
			string(item.Type), nullableString(item.Strategy),
			item.Category, marshalJSON(item.Categories), item.Confidence,
			string(item.Sentiment), marshalJSON(item.Topics), item.Language,
			item.Fingerprint, item.WordCount, item.ReadingTime,
			publishedAt, item.FetchedAt.UTC().Format("2006-01-02 15:04:05"),
		)
		if err != nil {
			return fmt.Errorf("inserting content %q: %w", item.URL, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting content id: %w", err)
		}
		item.ID = id

		for _, tag := range item.Tags {
			if _, err := tagStmt.ExecContext(ctx, id, tag); err != nil {
				return fmt.Errorf("inserting tag %q: %w", tag, err)
			}
		}

		touched[item.SourceID] = true
	}

	for sourceID := range touched {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM contents
			 WHERE source_id = ?
			   AND id NOT IN (
			       SELECT id FROM contents
			       WHERE source_id = ?
			       ORDER BY id DESC
			       LIMIT ?
			   )`, sourceID, sourceID, cap); err != nil {
			return fmt.Errorf("evicting old content for source %d: %w", sourceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing content transaction: %w", err)
	}
	return nil
}

// GetContent returns the content item with the given ID, tags included.
// Returns nil, ErrNotFound if no matching row exists.
func (s *Store) GetContent(ctx context.Context, id int64) (*models.EnrichedContent, error) {
	row := s.db.QueryRowContext(ctx, contentSelect+` WHERE c.id = ?`, id)

	item, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting content %d: %w", id, err)
	}

	tags, err := s.contentTags(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Tags = tags
	return item, nil
}

// ListContents returns content rows matching the filter, newest first.
func (s *Store) ListContents(ctx context.Context, filter ContentFilter) ([]models.EnrichedContent, error) {
	var conds []string
	var args []any
	if filter.SourceID > 0 {
		conds = append(conds, "c.source_id = ?")
		args = append(args, filter.SourceID)
	}
	if filter.Category != "" {
		conds = append(conds, "c.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Sentiment != "" {
		conds = append(conds, "c.sentiment = ?")
		args = append(args, filter.Sentiment)
	}
	if filter.Language != "" {
		conds = append(conds, "c.language = ?")
		args = append(args, filter.Language)
	}

	query := contentSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY c.id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing contents: %w", err)
	}
	defer rows.Close()

	items, err := collectContents(rows)
	if err != nil {
		return nil, err
	}
	if err := s.loadTagsForContents(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// CountsByCategory returns the number of content rows per category.
func (s *Store) CountsByCategory(ctx context.Context) (map[string]int, error) {
	return s.countsBy(ctx, `SELECT category, COUNT(*) FROM contents GROUP BY category`)
}

// CountsBySentiment returns the number of content rows per sentiment.
func (s *Store) CountsBySentiment(ctx context.Context) (map[string]int, error) {
	return s.countsBy(ctx, `SELECT sentiment, COUNT(*) FROM contents GROUP BY sentiment`)
}

func (s *Store) countsBy(ctx context.Context, query string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		counts[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating count rows: %w", err)
	}
	return counts, nil
}

const contentSelect = `
	SELECT c.id, c.source_id, COALESCE(s.label, '') AS source_label,
	       c.title, c.url, c.body_preview, c.author, c.type, c.strategy,
	       c.category, c.categories, c.confidence, c.sentiment, c.topics,
	       c.language, c.fingerprint, c.word_count, c.reading_time_minutes,
	       c.published_at, c.fetched_at
	FROM contents c
	LEFT JOIN sources s ON s.id = c.source_id`

func collectContents(rows *sql.Rows) ([]models.EnrichedContent, error) {
	items := []models.EnrichedContent{}
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning content row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content rows: %w", err)
	}
	return items, nil
}

func scanContent(row scanner) (*models.EnrichedContent, error) {
	var (
		item        models.EnrichedContent
		bodyPreview sql.NullString
		author      sql.NullString
		contentType string
		strategy    sql.NullString
		categories  sql.NullString
		sentiment   string
		topics      sql.NullString
		publishedAt sql.NullString
		fetchedAt   string
	)
	if err := row.Scan(
		&item.ID, &item.SourceID, &item.SourceLabel,
		&item.Title, &item.URL, &bodyPreview, &author, &contentType, &strategy,
		&item.Category, &categories, &item.Confidence, &sentiment, &topics,
		&item.Language, &item.Fingerprint, &item.WordCount, &item.ReadingTime,
		&publishedAt, &fetchedAt,
	); err != nil {
		return nil, err
	}

	item.BodyPreview = bodyPreview.String
	item.Author = author.String
	item.Type = models.ContentType(contentType)
	item.Strategy = strategy.String
	item.Categories = unmarshalJSON(categories.String)
	item.Sentiment = models.Sentiment(sentiment)
	item.Topics = unmarshalJSON(topics.String)
	item.PublishedAt = parseTimePtr(nullStringToPtr(publishedAt))
	item.FetchedAt = parseTime(fetchedAt)
	item.Tags = []string{}
	return &item, nil
}

// contentTags returns the tags attached to one content item.
func (s *Store) contentTags(ctx context.Context, contentID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM content_tags WHERE content_id = ? ORDER BY tag`, contentID)
	if err != nil {
		return nil, fmt.Errorf("loading tags for content %d: %w", contentID, err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

// loadTagsForContents attaches tags to each item's Tags field in one query.
func (s *Store) loadTagsForContents(ctx context.Context, items []models.EnrichedContent) error {
	if len(items) == 0 {
		return nil
	}

	placeholders := make([]string, len(items))
	args := make([]any, len(items))
	for i := range items {
		placeholders[i] = "?"
		args[i] = items[i].ID
	}

	query := fmt.Sprintf(
		`SELECT content_id, tag FROM content_tags
		 WHERE content_id IN (%s) ORDER BY tag`,
		strings.Join(placeholders, ","),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("loading content tags: %w", err)
	}
	defer rows.Close()

	tagMap := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("scanning tag row: %w", err)
		}
		tagMap[id] = append(tagMap[id], tag)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating tag rows: %w", err)
	}

	for i := range items {
		if tags, ok := tagMap[items[i].ID]; ok {
			items[i].Tags = tags
		} else {
			items[i].Tags = []string{}
		}
	}
	return nil
}

// scanner is a minimal interface satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// marshalJSON encodes a string slice as a JSON array for a TEXT column,
// returning nil for empty slices.
func marshalJSON(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// unmarshalJSON decodes a JSON array TEXT column, returning an empty slice
// on NULL or malformed data.
func unmarshalJSON(s string) []string {
	if s == "" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return []string{}
	}
	return values
}

// nullableString converts an empty string to nil for nullable TEXT columns.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullStringToPtr converts a sql.NullString to a *string.
func nullStringToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
