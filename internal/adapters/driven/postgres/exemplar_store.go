package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExemplarStore = (*ExemplarStore)(nil)

const exemplarColumns = `id, title, description, framework, notes, category,
	thinker_names, research_paper_ids, created_at, updated_at`

// ExemplarStore implements driven.ExemplarStore using PostgreSQL
type ExemplarStore struct {
	db *DB
}

// NewExemplarStore creates a new ExemplarStore
func NewExemplarStore(db *DB) *ExemplarStore {
	return &ExemplarStore{db: db}
}

// Save creates or updates an exemplar. research_paper_ids is only taken
// from e on insert; afterwards AddResearchPaperIDs is its sole writer.
func (s *ExemplarStore) Save(ctx context.Context, e *domain.Exemplar) error {
	query := `
		INSERT INTO exemplars (` + exemplarColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			framework = EXCLUDED.framework,
			notes = EXCLUDED.notes,
			category = EXCLUDED.category,
			thinker_names = EXCLUDED.thinker_names,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.Title,
		e.Description,
		e.Framework,
		e.Notes,
		e.Category,
		pq.Array(nonNil(e.ThinkerNames)),
		pq.Array(nonNil(e.ResearchPaperIDs)),
		e.CreatedAt,
		e.UpdatedAt,
	)
	return storeErr(err)
}

// Get retrieves an exemplar by ID
func (s *ExemplarStore) Get(ctx context.Context, id string) (*domain.Exemplar, error) {
	query := `SELECT ` + exemplarColumns + ` FROM exemplars WHERE id = $1`

	e, err := scanExemplar(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeErr(err)
	}
	return e, nil
}

// List retrieves exemplars matching the filter, ordered by title
func (s *ExemplarStore) List(ctx context.Context, filter domain.ExemplarFilter) ([]*domain.Exemplar, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `SELECT ` + exemplarColumns + ` FROM exemplars`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY title, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var exemplars []*domain.Exemplar
	for rows.Next() {
		e, err := scanExemplar(rows)
		if err != nil {
			return nil, storeErr(err)
		}
		exemplars = append(exemplars, e)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}

	return exemplars, nil
}

// AddResearchPaperIDs unions paperIDs into research_paper_ids
func (s *ExemplarStore) AddResearchPaperIDs(ctx context.Context, id string, paperIDs []string) error {
	query := `
		UPDATE exemplars
		SET research_paper_ids = ARRAY(
				SELECT DISTINCT unnest(research_paper_ids || $2::text[])
			),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id, pq.Array(nonNil(paperIDs)))
	if err != nil {
		return storeErr(err)
	}
	return expectAffected(result)
}

// Delete deletes an exemplar
func (s *ExemplarStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM exemplars WHERE id = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	return expectAffected(result)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExemplar(row rowScanner) (*domain.Exemplar, error) {
	var e domain.Exemplar
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Framework,
		&e.Notes,
		&e.Category,
		pq.Array(&e.ThinkerNames),
		pq.Array(&e.ResearchPaperIDs),
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Compile-time check that both row types satisfy rowScanner
var (
	_ rowScanner = (*sql.Row)(nil)
	_ rowScanner = (*sql.Rows)(nil)
)
