package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PersonaStore = (*PersonaStore)(nil)

const personaColumns = `id, code, name, primary_family, secondary_family,
	tertiary_family, traits, created_at`

// PersonaStore implements driven.PersonaStore using PostgreSQL
type PersonaStore struct {
	db *DB
}

// NewPersonaStore creates a new PersonaStore
func NewPersonaStore(db *DB) *PersonaStore {
	return &PersonaStore{db: db}
}

// UpsertBatch writes all personas in one transaction. Existing rows keep
// their id and created_at.
func (s *PersonaStore) UpsertBatch(ctx context.Context, personas []*domain.Persona) error {
	if len(personas) == 0 {
		return nil
	}

	query := `
		INSERT INTO ennead_personas (` + personaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			primary_family = EXCLUDED.primary_family,
			secondary_family = EXCLUDED.secondary_family,
			tertiary_family = EXCLUDED.tertiary_family,
			traits = EXCLUDED.traits
	`

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return storeErr(err)
		}
		defer stmt.Close()

		for _, p := range personas {
			_, err := stmt.ExecContext(ctx,
				p.ID,
				p.Code,
				p.Name,
				p.Primary,
				p.Secondary,
				p.Tertiary,
				pq.Array(nonNil(p.Traits)),
				p.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("upsert persona %s: %w", p.Code, storeErr(err))
			}
		}
		return nil
	})
}

// GetByCode retrieves a persona by its code
func (s *PersonaStore) GetByCode(ctx context.Context, code string) (*domain.Persona, error) {
	query := `SELECT ` + personaColumns + ` FROM ennead_personas WHERE code = $1`

	var p domain.Persona
	err := scanPersona(s.db.QueryRowContext(ctx, query, code), &p)
	if err != nil {
		return nil, storeErr(err)
	}
	return &p, nil
}

// List retrieves personas ordered by code
func (s *PersonaStore) List(ctx context.Context, limit int) ([]*domain.Persona, error) {
	query := `SELECT ` + personaColumns + ` FROM ennead_personas ORDER BY code`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var personas []*domain.Persona
	for rows.Next() {
		var p domain.Persona
		if err := scanPersona(rows, &p); err != nil {
			return nil, storeErr(err)
		}
		personas = append(personas, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}

	return personas, nil
}

// Count returns the number of stored personas
func (s *PersonaStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ennead_personas`).Scan(&n); err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

func scanPersona(row rowScanner, p *domain.Persona) error {
	return row.Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.Primary,
		&p.Secondary,
		&p.Tertiary,
		pq.Array(&p.Traits),
		&p.CreatedAt,
	)
}
