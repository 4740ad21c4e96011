// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package termfilter

import (
	"context"
	"fmt"

	"github.com/taibuivan/polyglot/internal/platform/database/schema"
)

// Supplier returns the term-taxonomy ids that must ALL match for the current
// request. It is invoked once per query-shaping step and must be fast and
// side-effect free; request state (e.g. the resolved locale key) travels in
// ctx.
type Supplier func(ctx context.Context) []int

// Filter is the request-time orchestrator for multi-term query restriction.
//
// It holds the registry mapping each opted-in post type to its term supplier,
// plus one special search slot (registered under the empty post type) whose
// ids are valid across all registered post types in search context.
//
// # Concurrency
//
// Registration happens once during setup; afterwards the registry is
// read-only for the life of the process, so no locking is needed.
type Filter struct {
	suppliers map[string]Supplier
	search    Supplier
	types     []string
}

// NewFilter creates an empty Filter.
func NewFilter() *Filter {
	return &Filter{suppliers: make(map[string]Supplier)}
}

// Register binds a term supplier to a post type.
//
// The last registration for a given post type wins — overwrite, not merge.
// An empty postType registers the search-wide slot.
func (f *Filter) Register(postType string, supply Supplier) {
	if postType == "" {
		f.search = supply
		return
	}
	if _, exists := f.suppliers[postType]; !exists {
		f.types = append(f.types, postType)
	}
	f.suppliers[postType] = supply
}

// RegisteredTypes returns the post types with a registered supplier, in
// registration order. The search slot is not included.
func (f *Filter) RegisteredTypes() []string {
	out := make([]string, len(f.types))
	copy(out, f.types)
	return out
}

// TermIDs resolves the required term-taxonomy ids for a post type.
// It returns nil when the post type is empty or has no registered supplier.
func (f *Filter) TermIDs(ctx context.Context, postType string) []int {
	if postType == "" {
		return nil
	}
	supply, ok := f.suppliers[postType]
	if !ok || supply == nil {
		return nil
	}
	return supply(ctx)
}

// SearchTermIDs resolves the ids for the search-wide slot.
func (f *Filter) SearchTermIDs(ctx context.Context) []int {
	if f.search == nil {
		return nil
	}
	return f.search(ctx)
}

// # Query-Shaping Steps
//
// Every step shares the same no-op policy: a missing post type, an
// unregistered supplier, or an empty id list leaves the Builder unchanged.
// The filter is strictly additive and never narrows a query it cannot
// positively justify.

// restrict appends the join chain and id conjunction for ids to b.
func (f *Filter) restrict(b *Builder, ids []int) {
	if len(ids) == 0 {
		return
	}
	b.AddJoin(JoinChain(len(ids), b.BaseAlias(), JoinInner))

	cond, args := WhereAll(ids, b.NextArg())
	b.AddCond(cond)
	for _, arg := range args {
		b.Bind(arg)
	}
}

// ApplyArchive restricts an archive listing keyed by its requested post type.
//
// Listings over multiple post types are never restricted — the caller only
// invokes this when the request names a single post type.
func (f *Filter) ApplyArchive(ctx context.Context, b *Builder, postType string) {
	f.restrict(b, f.TermIDs(ctx, postType))
}

// ApplyAdjacent restricts a next/previous-post lookup, scoped to the current
// post's own post type.
func (f *Filter) ApplyAdjacent(ctx context.Context, b *Builder, postType string) {
	f.restrict(b, f.TermIDs(ctx, postType))
}

// ApplySearch restricts a full-text search query using the search-wide slot.
//
// The restriction only applies to posts of a type that opted in: the
// predicate is wrapped as
//
//	(p.type NOT IN (<registered types>) OR (<term conjunction>))
//
// so posts of unregistered types pass through unaffected. The base id column
// is added to the group-by list because the self-joins can multiply rows.
func (f *Filter) ApplySearch(ctx context.Context, b *Builder) {
	ids := f.SearchTermIDs(ctx)
	if len(ids) == 0 || len(f.types) == 0 {
		return
	}

	b.AddJoin(JoinChain(len(ids), b.BaseAlias(), JoinLeft))

	conjunction, args := WhereAll(ids, b.NextArg())
	for _, arg := range args {
		b.Bind(arg)
	}

	typesPlaceholder := b.Bind(f.RegisteredTypes())
	b.AddCond(fmt.Sprintf("(NOT (%s.%s = ANY(%s)) OR (%s))",
		b.BaseAlias(), schema.Post.Type, typesPlaceholder, conjunction))

	b.EnsureGroupBy(fmt.Sprintf("%s.%s", b.BaseAlias(), schema.Post.ID))
}

// MainQuery describes the shape of a main query for ApplyMain dispatch.
type MainQuery struct {
	// Search marks a full-text search query.
	Search bool

	// PostsPage marks the designated posts-page listing, which always uses
	// the supplier for the literal post type "post".
	PostsPage bool

	// PostTypes is the query's own post type parameter; only the first
	// element is consulted.
	PostTypes []string
}

// ApplyMain restricts the main query according to its shape:
// search queries use the search-wide slot, the posts page uses the "post"
// supplier, and anything else resolves the supplier from the query's own
// post type parameter.
func (f *Filter) ApplyMain(ctx context.Context, b *Builder, q MainQuery) {
	switch {
	case q.Search:
		f.ApplySearch(ctx, b)
	case q.PostsPage:
		f.ApplyArchive(ctx, b, "post")
	case len(q.PostTypes) > 0:
		f.ApplyArchive(ctx, b, q.PostTypes[0])
	}
}
