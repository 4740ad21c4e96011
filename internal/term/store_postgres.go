package term

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/polyglot/internal/platform/database/schema"
	"github.com/taibuivan/polyglot/internal/platform/dberr"
)

// PostgresRepository implements [Repository] over cms.term.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed term repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) FindByID(context context.Context, id int) (*Term, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Term.ID, schema.Term.Taxonomy, schema.Term.Name, schema.Term.Slug, schema.Term.Description,
		schema.Term.Table, schema.Term.ID)

	term := &Term{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&term.ID, &term.Taxonomy, &term.Name, &term.Slug, &term.Description,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_term_by_id")
	}
	return term, nil
}

func (repository *PostgresRepository) ListByTaxonomy(context context.Context, taxonomy string) ([]*Term, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.Term.ID, schema.Term.Taxonomy, schema.Term.Name, schema.Term.Slug, schema.Term.Description,
		schema.Term.Table, schema.Term.Taxonomy, schema.Term.Name)

	rows, err := repository.db.Query(context, query, taxonomy)
	if err != nil {
		return nil, dberr.Wrap(err, "list_terms_by_taxonomy")
	}
	defer rows.Close()

	terms := make([]*Term, 0)
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Taxonomy, &term.Name, &term.Slug, &term.Description); err != nil {
			return nil, dberr.Wrap(err, "scan_term")
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_terms_by_taxonomy")
	}
	return terms, nil
}
