package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResearchPaperStore = (*ResearchPaperStore)(nil)

const paperColumns = `id, title, abstract, authors, tags, year, url,
	exemplar_ids, created_at, updated_at`

// ResearchPaperStore implements driven.ResearchPaperStore using PostgreSQL
type ResearchPaperStore struct {
	db *DB
}

// NewResearchPaperStore creates a new ResearchPaperStore
func NewResearchPaperStore(db *DB) *ResearchPaperStore {
	return &ResearchPaperStore{db: db}
}

// Save creates or updates a research paper. exemplar_ids is only taken
// from p on insert; AddExemplarIDs owns it after that.
func (s *ResearchPaperStore) Save(ctx context.Context, p *domain.ResearchPaper) error {
	query := `
		INSERT INTO research_papers (` + paperColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			abstract = EXCLUDED.abstract,
			authors = EXCLUDED.authors,
			tags = EXCLUDED.tags,
			year = EXCLUDED.year,
			url = EXCLUDED.url,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Abstract,
		pq.Array(nonNil(p.Authors)),
		pq.Array(nonNil(p.Tags)),
		p.Year,
		p.URL,
		pq.Array(nonNil(p.ExemplarIDs)),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return storeErr(err)
}

// Get retrieves a research paper by ID
func (s *ResearchPaperStore) Get(ctx context.Context, id string) (*domain.ResearchPaper, error) {
	query := `SELECT ` + paperColumns + ` FROM research_papers WHERE id = $1`

	p, err := scanPaper(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeErr(err)
	}
	return p, nil
}

// List retrieves research papers in creation order. The whole table is
// scanned when limit <= 0; filtering happens in the caller.
func (s *ResearchPaperStore) List(ctx context.Context, limit int) ([]*domain.ResearchPaper, error) {
	query := `SELECT ` + paperColumns + ` FROM research_papers ORDER BY created_at, id`
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

	var papers []*domain.ResearchPaper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, storeErr(err)
		}
		papers = append(papers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}

	return papers, nil
}

// AddExemplarIDs unions exemplarIDs into exemplar_ids
func (s *ResearchPaperStore) AddExemplarIDs(ctx context.Context, id string, exemplarIDs []string) error {
	query := `
		UPDATE research_papers
		SET exemplar_ids = ARRAY(
				SELECT DISTINCT unnest(exemplar_ids || $2::text[])
			),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id, pq.Array(nonNil(exemplarIDs)))
	if err != nil {
		return storeErr(err)
	}
	return expectAffected(result)
}

// Delete deletes a research paper
func (s *ResearchPaperStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM research_papers WHERE id = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	return expectAffected(result)
}

func scanPaper(row rowScanner) (*domain.ResearchPaper, error) {
	var p domain.ResearchPaper
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Abstract,
		pq.Array(&p.Authors),
		pq.Array(&p.Tags),
		&p.Year,
		&p.URL,
		pq.Array(&p.ExemplarIDs),
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
