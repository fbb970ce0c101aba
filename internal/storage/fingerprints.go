package storage

import (
	"context"
	"fmt"
)

// DefaultFingerprintCap is the number of fingerprints retained per source
// when no explicit cap is configured.
const DefaultFingerprintCap = 300

// FingerprintHistory returns the retained fingerprints for a source in
// insertion order, oldest first. A source with no history yields an empty
// slice; the source itself is not required to exist.
func (s *Store) FingerprintHistory(ctx context.Context, sourceID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM fingerprints WHERE source_id = ? ORDER BY id`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying fingerprints for source %d: %w", sourceID, err)
	}
	defer rows.Close()

	history := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning fingerprint row: %w", err)
		}
		history = append(history, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fingerprint rows: %w", err)
	}
	return history, nil
}

// AppendFingerprints appends fingerprints to a source's history and evicts
// the oldest rows so that at most cap remain. A cap of zero or less falls
// back to DefaultFingerprintCap. The append and eviction happen in a single
// transaction; ErrNotFound is returned if the source does not exist.
func (s *Store) AppendFingerprints(ctx context.Context, sourceID int64, values []string, cap int) error {
	if len(values) == 0 {
		return nil
	}
	if cap <= 0 {
		cap = DefaultFingerprintCap
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning fingerprint transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sources WHERE id = ?)`, sourceID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking source %d: %w", sourceID, err)
	}
	if !exists {
		return ErrNotFound
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO fingerprints (source_id, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing fingerprint insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range values {
		if _, err := stmt.ExecContext(ctx, sourceID, v); err != nil {
			return fmt.Errorf("inserting fingerprint %q: %w", v, err)
		}
	}

	// Keep only the cap newest rows for this source.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM fingerprints
		 WHERE source_id = ?
		   AND id NOT IN (
		       SELECT id FROM fingerprints
		       WHERE source_id = ?
		       ORDER BY id DESC
		       LIMIT ?
		   )`, sourceID, sourceID, cap); err != nil {
		return fmt.Errorf("evicting old fingerprints for source %d: %w", sourceID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing fingerprint transaction: %w", err)
	}
	return nil
}

// FingerprintCount returns the number of retained fingerprints for a source.
func (s *Store) FingerprintCount(ctx context.Context, sourceID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fingerprints WHERE source_id = ?`, sourceID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting fingerprints for source %d: %w", sourceID, err)
	}
	return n, nil
}
