package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/polyglot/internal/platform/database/schema"
	"github.com/taibuivan/polyglot/internal/platform/dberr"
	"github.com/taibuivan/polyglot/internal/termfilter"
	"github.com/taibuivan/polyglot/pkg/pagination"
)

// PostgresRepository implements [Repository] over cms.post.
//
// The injected [termfilter.Filter] contributes term restrictions to every
// listing query before the SQL text is assembled.
type PostgresRepository struct {
	db     *pgxpool.Pool
	filter *termfilter.Filter
}

// NewPostgresRepository creates a PostgreSQL-backed post repository.
func NewPostgresRepository(db *pgxpool.Pool, filter *termfilter.Filter) *PostgresRepository {
	return &PostgresRepository{db: db, filter: filter}
}

// postColumns lists the selected columns, prefixed with the base alias.
func postColumns(alias string) string {
	return fmt.Sprintf("%s.%s, %s.%s, %s.%s, %s.%s, %s.%s, %s.%s, %s.%s, %s.%s",
		alias, schema.Post.ID,
		alias, schema.Post.Type,
		alias, schema.Post.Status,
		alias, schema.Post.Title,
		alias, schema.Post.Content,
		alias, schema.Post.PublishedAt,
		alias, schema.Post.CreatedAt,
		alias, schema.Post.UpdatedAt,
	)
}

// scanPost reads one post row in postColumns order.
func scanPost(row pgx.Row) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID, &post.Type, &post.Status,
		&post.Title, &post.Content,
		&post.PublishedAt, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s p WHERE p.%s = $1`,
		postColumns("p"), schema.Post.Table, schema.Post.ID)

	post, err := scanPost(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_post_by_id")
	}
	return post, nil
}

func (repository *PostgresRepository) Archive(context context.Context, postType string, params pagination.Params) ([]*Post, int, error) {
	builder := termfilter.NewBuilder("p", 1)
	builder.AddCond(fmt.Sprintf("p.%s = %s", schema.Post.Type, builder.Bind(postType)))
	builder.AddCond(fmt.Sprintf("p.%s = %s", schema.Post.Status, builder.Bind(StatusPublished)))

	// Term restrictions for the requested post type, if a supplier opted in.
	// The listing is a main query; the filter dispatches on its shape.
	repository.filter.ApplyMain(context, builder, termfilter.MainQuery{
		PostsPage: postType == "post",
		PostTypes: []string{postType},
	})

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM %s p%s
		WHERE %s%s
		ORDER BY p.%s DESC
		LIMIT %s OFFSET %s
	`,
		postColumns("p"), schema.Post.Table, builder.JoinSQL(),
		builder.CondSQL(), builder.GroupBySQL(),
		schema.Post.PublishedAt,
		builder.Bind(params.Limit), builder.Bind(params.Offset()),
	)

	return repository.listPosts(context, query, builder.Args(), "list_archive")
}

func (repository *PostgresRepository) Adjacent(context context.Context, reference *Post, next bool) (*Post, error) {
	// Navigation order follows publication time; direction flips both the
	// comparison operator and the sort.
	operator, order := "<", "DESC"
	if next {
		operator, order = ">", "ASC"
	}

	builder := termfilter.NewBuilder("p", 1)
	builder.AddCond(fmt.Sprintf("p.%s = %s", schema.Post.Type, builder.Bind(reference.Type)))
	builder.AddCond(fmt.Sprintf("p.%s = %s", schema.Post.Status, builder.Bind(StatusPublished)))
	builder.AddCond(fmt.Sprintf("p.%s %s %s", schema.Post.PublishedAt, operator, builder.Bind(reference.PublishedAt)))

	repository.filter.ApplyAdjacent(context, builder, reference.Type)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p%s
		WHERE %s%s
		ORDER BY p.%s %s
		LIMIT 1
	`,
		postColumns("p"), schema.Post.Table, builder.JoinSQL(),
		builder.CondSQL(), builder.GroupBySQL(),
		schema.Post.PublishedAt, order,
	)

	post, err := scanPost(repository.db.QueryRow(context, query, builder.Args()...))
	if err != nil {
		// Reaching either end of the archive is a normal outcome, not an error.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "get_adjacent_post")
	}
	return post, nil
}

func (repository *PostgresRepository) Search(context context.Context, searchQuery string, params pagination.Params) ([]*Post, int, error) {
	builder := termfilter.NewBuilder("p", 1)

	tsQuery := builder.Bind(searchQuery)
	builder.AddCond(fmt.Sprintf("p.%s @@ websearch_to_tsquery('simple', %s)",
		schema.Post.SearchVector, tsQuery))
	builder.AddCond(fmt.Sprintf("p.%s = %s", schema.Post.Status, builder.Bind(StatusPublished)))

	// Search-wide term restriction, wrapped so posts of types that never
	// opted in pass through unaffected.
	repository.filter.ApplyMain(context, builder, termfilter.MainQuery{Search: true})

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM %s p%s
		WHERE %s%s
		ORDER BY ts_rank(p.%s, websearch_to_tsquery('simple', %s)) DESC, p.%s DESC
		LIMIT %s OFFSET %s
	`,
		postColumns("p"), schema.Post.Table, builder.JoinSQL(),
		builder.CondSQL(), builder.GroupBySQL(),
		schema.Post.SearchVector, tsQuery,
		schema.Post.PublishedAt,
		builder.Bind(params.Limit), builder.Bind(params.Offset()),
	)

	return repository.listPosts(context, query, builder.Args(), "search_posts")
}

// listPosts runs a listing query selecting postColumns plus a window total.
func (repository *PostgresRepository) listPosts(context context.Context, query string, args []any, action string) ([]*Post, int, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	defer rows.Close()

	posts := make([]*Post, 0)
	total := 0

	for rows.Next() {
		post := &Post{}
		err := rows.Scan(
			&post.ID, &post.Type, &post.Status,
			&post.Title, &post.Content,
			&post.PublishedAt, &post.CreatedAt, &post.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, action)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}

	return posts, total, nil
}
