package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/contentspy/contentspy/internal/models"
)

// TagCount pairs a tag with the number of content items carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ListTags returns every tag seen across captured content with its usage
// count, most used first and alphabetical within equal counts.
func (s *Store) ListTags(ctx context.Context) ([]TagCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag, COUNT(*) AS n
		 FROM content_tags
		 GROUP BY tag
		 ORDER BY n DESC, tag`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	tags := []TagCount{}
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag rows: %w", err)
	}
	return tags, nil
}

// ListContentsByTag returns content items carrying the given tag, newest
// first.
func (s *Store) ListContentsByTag(ctx context.Context, tag string, limit int) ([]models.EnrichedContent, error) {
	tag = strings.TrimSpace(strings.ToLower(tag))
	if tag == "" {
		return []models.EnrichedContent{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, contentSelect+`
		 JOIN content_tags ct ON ct.content_id = c.id
		 WHERE ct.tag = ?
		 ORDER BY c.id DESC
		 LIMIT ?`,
		tag, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying contents by tag: %w", err)
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
