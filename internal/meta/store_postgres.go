package meta

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/polyglot/internal/platform/apperr"
	"github.com/taibuivan/polyglot/internal/platform/database/schema"
)

// # PostgreSQL Repositories

// PostMetaRepository implements [Store] over cms.postmeta (UUID entity ids).
type PostMetaRepository struct {
	pool *pgxpool.Pool
}

// NewPostMetaRepository constructs a PostgreSQL backed post metadata store.
func NewPostMetaRepository(pool *pgxpool.Pool) *PostMetaRepository {
	return &PostMetaRepository{pool: pool}
}

func (repository *PostMetaRepository) Get(ctx context.Context, entityID, key string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.PostMeta.Value, schema.PostMeta.Table, schema.PostMeta.PostID, schema.PostMeta.Key)

	var value string
	err := repository.pool.QueryRow(ctx, query, entityID, key).Scan(&value)
	if err != nil {
		// Absence is a normal state for override lookups.
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("postgres: failed to get post meta: %w", err)
	}

	return value, nil
}

func (repository *PostMetaRepository) GetAll(ctx context.Context, entityID string) (map[string]string, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		schema.PostMeta.Key, schema.PostMeta.Value, schema.PostMeta.Table, schema.PostMeta.PostID)

	rows, err := repository.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list post meta: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan post meta: %w", err)
		}
		entries[key] = value
	}

	return entries, rows.Err()
}

func (repository *PostMetaRepository) Upsert(ctx context.Context, entityID, key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO UPDATE SET %s = EXCLUDED.%s
	`,
		schema.PostMeta.Table, schema.PostMeta.PostID, schema.PostMeta.Key, schema.PostMeta.Value,
		schema.PostMeta.PostID, schema.PostMeta.Key,
		schema.PostMeta.Value, schema.PostMeta.Value,
	)

	if _, err := repository.pool.Exec(ctx, query, entityID, key, value); err != nil {
		return fmt.Errorf("postgres: failed to upsert post meta: %w", err)
	}
	return nil
}

func (repository *PostMetaRepository) Delete(ctx context.Context, entityID, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.PostMeta.Table, schema.PostMeta.PostID, schema.PostMeta.Key)

	if _, err := repository.pool.Exec(ctx, query, entityID, key); err != nil {
		return fmt.Errorf("postgres: failed to delete post meta: %w", err)
	}
	return nil
}

// # Term Metadata

// TermMetaRepository implements [Store] over cms.termmeta.
//
// Term ids are integers in storage; the string entity id carried through the
// [Store] interface is parsed on the way in.
type TermMetaRepository struct {
	pool *pgxpool.Pool
}

// NewTermMetaRepository constructs a PostgreSQL backed term metadata store.
func NewTermMetaRepository(pool *pgxpool.Pool) *TermMetaRepository {
	return &TermMetaRepository{pool: pool}
}

// termID parses the interface-level entity id into the integer column value.
func termID(entityID string) (int, error) {
	id, err := strconv.Atoi(entityID)
	if err != nil {
		return 0, apperr.ValidationError("Term id must be an integer")
	}
	return id, nil
}

func (repository *TermMetaRepository) Get(ctx context.Context, entityID, key string) (string, error) {
	id, err := termID(entityID)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.TermMeta.Value, schema.TermMeta.Table, schema.TermMeta.TermID, schema.TermMeta.Key)

	var value string
	err = repository.pool.QueryRow(ctx, query, id, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("postgres: failed to get term meta: %w", err)
	}

	return value, nil
}

func (repository *TermMetaRepository) GetAll(ctx context.Context, entityID string) (map[string]string, error) {
	id, err := termID(entityID)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		schema.TermMeta.Key, schema.TermMeta.Value, schema.TermMeta.Table, schema.TermMeta.TermID)

	rows, err := repository.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list term meta: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan term meta: %w", err)
		}
		entries[key] = value
	}

	return entries, rows.Err()
}

func (repository *TermMetaRepository) Upsert(ctx context.Context, entityID, key, value string) error {
	id, err := termID(entityID)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO UPDATE SET %s = EXCLUDED.%s
	`,
		schema.TermMeta.Table, schema.TermMeta.TermID, schema.TermMeta.Key, schema.TermMeta.Value,
		schema.TermMeta.TermID, schema.TermMeta.Key,
		schema.TermMeta.Value, schema.TermMeta.Value,
	)

	if _, err := repository.pool.Exec(ctx, query, id, key, value); err != nil {
		return fmt.Errorf("postgres: failed to upsert term meta: %w", err)
	}
	return nil
}

func (repository *TermMetaRepository) Delete(ctx context.Context, entityID, key string) error {
	id, err := termID(entityID)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.TermMeta.Table, schema.TermMeta.TermID, schema.TermMeta.Key)

	if _, err := repository.pool.Exec(ctx, query, id, key); err != nil {
		return fmt.Errorf("postgres: failed to delete term meta: %w", err)
	}
	return nil
}
