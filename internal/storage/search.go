package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/contentspy/contentspy/internal/models"
)

// SearchContents performs a full-text search over captured content using
// FTS5, matching titles and body previews. Results are ordered by relevance
// and limited to the given count.
func (s *Store) SearchContents(ctx context.Context, query string, limit int) ([]models.EnrichedContent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.EnrichedContent{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, contentSelect+`
		 JOIN contents_fts fts ON fts.rowid = c.id
		 WHERE contents_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching contents: %w", err)
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
