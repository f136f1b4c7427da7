package postgres

import (
	"context"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.LinkStore = (*LinkStore)(nil)

// LinkStore implements driven.LinkStore using PostgreSQL
type LinkStore struct {
	db *DB
}

// NewLinkStore creates a new LinkStore
func NewLinkStore(db *DB) *LinkStore {
	return &LinkStore{db: db}
}

// Insert stores a new link. Repeated pairs are allowed.
func (s *LinkStore) Insert(ctx context.Context, link *domain.Link) error {
	query := `
		INSERT INTO links (id, source_id, source_kind, target_id, target_kind,
			relevance_score, link_type, context_note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		link.ID,
		link.SourceID,
		string(link.SourceKind),
		link.TargetID,
		string(link.TargetKind),
		link.RelevanceScore,
		string(link.LinkType),
		link.ContextNote,
		link.CreatedAt,
	)
	return storeErr(err)
}

// ListForRecord returns links where the record is source or target, newest first
func (s *LinkStore) ListForRecord(ctx context.Context, recordID string) ([]*domain.Link, error) {
	query := `
		SELECT id, source_id, source_kind, target_id, target_kind,
		       relevance_score, link_type, context_note, created_at
		FROM links
		WHERE source_id = $1 OR target_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := s.db.QueryContext(ctx, query, recordID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var links []*domain.Link
	for rows.Next() {
		var l domain.Link
		err := rows.Scan(
			&l.ID,
			&l.SourceID,
			&l.SourceKind,
			&l.TargetID,
			&l.TargetKind,
			&l.RelevanceScore,
			&l.LinkType,
			&l.ContextNote,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, storeErr(err)
		}
		links = append(links, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}

	return links, nil
}

// Delete removes a link
func (s *LinkStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	return expectAffected(result)
}

// Count returns the total number of links
func (s *LinkStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM links`).Scan(&n); err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}
