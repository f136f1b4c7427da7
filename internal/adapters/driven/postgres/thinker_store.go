package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ThinkerStore = (*ThinkerStore)(nil)

const thinkerColumns = `id, name, bio, key_works, domains, work_family,
	alignment_score, alignment_rationale, enriched_at, aligned_at,
	created_at, updated_at`

// ThinkerStore implements driven.ThinkerStore using PostgreSQL
type ThinkerStore struct {
	db *DB
}

// NewThinkerStore creates a new ThinkerStore
func NewThinkerStore(db *DB) *ThinkerStore {
	return &ThinkerStore{db: db}
}

// Save creates or updates a thinker
func (s *ThinkerStore) Save(ctx context.Context, t *domain.Thinker) error {
	query := `
		INSERT INTO thinkers (` + thinkerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			bio = EXCLUDED.bio,
			key_works = EXCLUDED.key_works,
			domains = EXCLUDED.domains,
			work_family = EXCLUDED.work_family,
			alignment_score = EXCLUDED.alignment_score,
			alignment_rationale = EXCLUDED.alignment_rationale,
			enriched_at = EXCLUDED.enriched_at,
			aligned_at = EXCLUDED.aligned_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Bio,
		pq.Array(nonNil(t.KeyWorks)),
		pq.Array(nonNil(t.Domains)),
		t.WorkFamily,
		t.AlignmentScore,
		t.AlignmentRationale,
		NullTime(t.EnrichedAt),
		NullTime(t.AlignedAt),
		t.CreatedAt,
		t.UpdatedAt,
	)
	return storeErr(err)
}

// SaveEnrichment updates the profile fields and leaves the alignment alone
func (s *ThinkerStore) SaveEnrichment(ctx context.Context, id string, e domain.ThinkerEnrichment, at time.Time) error {
	query := `
		UPDATE thinkers
		SET bio = $2, key_works = $3, domains = $4, enriched_at = $5, updated_at = $5
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		id,
		e.Bio,
		pq.Array(nonNil(e.KeyWorks)),
		pq.Array(nonNil(e.Domains)),
		at,
	)
	if err != nil {
		return storeErr(err)
	}
	return expectAffected(result)
}

// SaveAlignment updates the work family fields and leaves the profile alone
func (s *ThinkerStore) SaveAlignment(ctx context.Context, a *domain.Alignment, at time.Time) error {
	query := `
		UPDATE thinkers
		SET work_family = $2, alignment_score = $3, alignment_rationale = $4,
			aligned_at = $5, updated_at = $5
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, a.ThinkerID, a.Family, a.Confidence, a.Rationale, at)
	if err != nil {
		return storeErr(err)
	}
	return expectAffected(result)
}

// Get retrieves a thinker by ID
func (s *ThinkerStore) Get(ctx context.Context, id string) (*domain.Thinker, error) {
	query := `SELECT ` + thinkerColumns + ` FROM thinkers WHERE id = $1`

	t, err := scanThinker(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeErr(err)
	}
	return t, nil
}

// List retrieves all thinkers ordered by name
func (s *ThinkerStore) List(ctx context.Context) ([]*domain.Thinker, error) {
	return s.list(ctx, `SELECT `+thinkerColumns+` FROM thinkers ORDER BY name, id`)
}

// ListAligned retrieves thinkers with a work family, ordered by name
func (s *ThinkerStore) ListAligned(ctx context.Context) ([]*domain.Thinker, error) {
	return s.list(ctx, `SELECT `+thinkerColumns+` FROM thinkers WHERE work_family <> '' ORDER BY name, id`)
}

func (s *ThinkerStore) list(ctx context.Context, query string) ([]*domain.Thinker, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var thinkers []*domain.Thinker
	for rows.Next() {
		t, err := scanThinker(rows)
		if err != nil {
			return nil, storeErr(err)
		}
		thinkers = append(thinkers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}

	return thinkers, nil
}

// Delete deletes a thinker
func (s *ThinkerStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM thinkers WHERE id = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	return expectAffected(result)
}

func scanThinker(row rowScanner) (*domain.Thinker, error) {
	var (
		t          domain.Thinker
		enrichedAt sql.NullTime
		alignedAt  sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Bio,
		pq.Array(&t.KeyWorks),
		pq.Array(&t.Domains),
		&t.WorkFamily,
		&t.AlignmentScore,
		&t.AlignmentRationale,
		&enrichedAt,
		&alignedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.EnrichedAt = TimePtr(enrichedAt)
	t.AlignedAt = TimePtr(alignedAt)
	return &t, nil
}
