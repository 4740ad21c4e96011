// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package termfilter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/polyglot/internal/platform/database/schema"
)

// statusPublished mirrors the published post status; counts never include
// drafts.
const statusPublished = "published"

// BuildCountQuery assembles the full SELECT COUNT(*) statement restricting
// posts of the given types to those carrying every one of the given
// term-taxonomy ids.
//
// COUNT(*) is safe without de-duplication because (objectid, termtaxonomyid)
// is the junction table's primary key: each pinned self-join matches at most
// one row per post.
func BuildCountQuery(postTypes []string, ids []int) (string, []any) {
	b := NewBuilder("p", 1)
	b.AddJoin(JoinChain(len(ids), "p", JoinInner))

	b.AddCond(fmt.Sprintf("p.%s = ANY(%s)", schema.Post.Type, b.Bind(postTypes)))
	b.AddCond(fmt.Sprintf("p.%s = %s", schema.Post.Status, b.Bind(statusPublished)))

	cond, args := WhereAll(ids, b.NextArg())
	b.AddCond(cond)
	for _, arg := range args {
		b.Bind(arg)
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s p%s WHERE %s",
		schema.Post.Table, b.JoinSQL(), b.CondSQL())

	return query, b.Args()
}

// Counter executes multi-term count queries against PostgreSQL.
//
// It is the direct synchronous helper for callers needing a scalar count
// outside the listing pipeline.
type Counter struct {
	pool *pgxpool.Pool
}

// NewCounter constructs a PostgreSQL backed Counter.
func NewCounter(pool *pgxpool.Pool) *Counter {
	return &Counter{pool: pool}
}

// CountPostsWithTerms counts posts of the given types carrying ALL of the
// given term-taxonomy ids. An empty id list counts every post of the types.
func (counter *Counter) CountPostsWithTerms(ctx context.Context, postTypes []string, ids []int) (int, error) {
	if len(postTypes) == 0 {
		return 0, nil
	}

	query, args := BuildCountQuery(postTypes, ids)

	var total int
	if err := counter.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: failed to count posts with terms: %w", err)
	}

	return total, nil
}
