package editor

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/polyglot/internal/platform/database/schema"
	"github.com/taibuivan/polyglot/internal/platform/dberr"
)

// PostgresRepository implements [Repository] over users.editor.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed editor repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*Editor, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Editor.ID, schema.Editor.Username, schema.Editor.PasswordHash,
		schema.Editor.Role, schema.Editor.CreatedAt,
		schema.Editor.Table, schema.Editor.Username)

	editor := &Editor{}
	err := repository.db.QueryRow(context, query, username).Scan(
		&editor.ID, &editor.Username, &editor.PasswordHash, &editor.Role, &editor.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_editor_by_username")
	}
	return editor, nil
}
