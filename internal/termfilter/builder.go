// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package termfilter restricts post queries to rows tagged with an arbitrary
N-way combination of taxonomy terms.

The restriction is expressed as N independent self-joins of the
term-relationship table, one per required term-taxonomy id. Requiring ALL ids
to match via N joins (rather than a single IN clause) implements AND
semantics over the term set — a post must carry every one of the N terms,
not merely one of them — which an IN-based single join cannot express without
a GROUP BY ... HAVING COUNT(*) = N rewrite. The N-self-join shape also
composes cleanly with adjacent-post queries that already use join chains.

Architecture:

  - Builder: structured accumulation of join / predicate / group-by fragments
    with positional $n arguments; string assembly is deferred to the owning
    store method. Nothing here splices text into a query it does not own.
  - Filter: the request-time orchestrator holding the post-type → term
    supplier registry (see filter.go).
  - Counter: a direct synchronous COUNT(*) helper for callers outside the
    listing pipeline (see count.go).
*/
package termfilter

import (
	"fmt"
	"strings"

	"github.com/taibuivan/polyglot/internal/platform/database/schema"
)

// Join types for term restriction chains.
const (
	// JoinInner is the default for restrictions scoped to a single post type.
	JoinInner = "INNER"

	// JoinLeft is used in search context, where posts of types that never
	// opted in must survive the join with NULL relationship columns.
	JoinLeft = "LEFT"
)

// joinAlias returns the alias of the i-th term-relationship self-join.
func joinAlias(i int) string {
	return fmt.Sprintf("tr%d", i)
}

// JoinChain emits exactly n aliased self-joins of cms.termrelationship,
// aliased tr0..tr(n-1), each joined on <baseAlias>.id = trI.objectid.
//
// n <= 0 yields the empty string.
func JoinChain(n int, baseAlias, joinType string) string {
	if n <= 0 {
		return ""
	}
	if joinType == "" {
		joinType = JoinInner
	}

	var sb strings.Builder
	for i := 0; i < n; i++ {
		alias := joinAlias(i)
		sb.WriteString(fmt.Sprintf(" %s JOIN %s AS %s ON %s.%s = %s.%s",
			joinType, schema.TermRelationship.Table, alias,
			baseAlias, schema.Post.ID,
			alias, schema.TermRelationship.ObjectID,
		))
	}
	return sb.String()
}

// WhereAll emits the conjunction tying each join alias to one required
// term-taxonomy id: "tr0.termtaxonomyid = $k AND tr1.termtaxonomyid = $k+1 ...".
//
// Values are always bound as positional arguments, never interpolated.
// firstArg is the positional index of the first placeholder.
func WhereAll(ids []int, firstArg int) (string, []any) {
	if len(ids) == 0 {
		return "", nil
	}

	parts := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s.%s = $%d",
			joinAlias(i), schema.TermRelationship.TermTaxonomyID, firstArg+i)
		args[i] = id
	}

	return strings.Join(parts, " AND "), args
}

// # Structured Query Accumulation

// Builder accumulates join, predicate, and group-by fragments plus their
// positional arguments for one query under construction.
//
// A store method creates one Builder per query, binds its own arguments
// through it, lets the [Filter] contribute term restrictions, and assembles
// the final SQL once at the end. The Builder is strictly additive: apply
// steps that cannot positively justify a restriction leave it untouched.
type Builder struct {
	baseAlias string
	joins     []string
	conds     []string
	groupBy   []string
	args      []any
	nextArg   int
}

// NewBuilder creates a Builder for a query whose base table is aliased
// baseAlias and whose first positional placeholder is $firstArg.
func NewBuilder(baseAlias string, firstArg int) *Builder {
	if firstArg < 1 {
		firstArg = 1
	}
	return &Builder{baseAlias: baseAlias, nextArg: firstArg}
}

// BaseAlias returns the base table alias the Builder was created with.
func (b *Builder) BaseAlias() string { return b.baseAlias }

// Bind registers value as the next positional argument and returns its
// placeholder ("$n"). This is the only way values enter the fragment text.
func (b *Builder) Bind(value any) string {
	b.args = append(b.args, value)
	placeholder := fmt.Sprintf("$%d", b.nextArg)
	b.nextArg++
	return placeholder
}

// NextArg returns the positional index the next Bind call will use.
func (b *Builder) NextArg() int { return b.nextArg }

// AddJoin appends a raw join fragment.
func (b *Builder) AddJoin(fragment string) {
	if fragment == "" {
		return
	}
	b.joins = append(b.joins, fragment)
}

// AddCond appends a predicate fragment. Fragments are AND-joined by CondSQL.
func (b *Builder) AddCond(fragment string) {
	if fragment == "" {
		return
	}
	b.conds = append(b.conds, fragment)
}

// EnsureGroupBy appends column to the group-by list exactly once.
//
// Blank columns and duplicates are skipped. Search mode uses this to restore
// row de-duplication after the self-joins multiply result rows.
func (b *Builder) EnsureGroupBy(column string) {
	column = strings.TrimSpace(column)
	if column == "" {
		return
	}
	for _, existing := range b.groupBy {
		if existing == column {
			return
		}
	}
	b.groupBy = append(b.groupBy, column)
}

// HasConds reports whether any predicate has been accumulated.
func (b *Builder) HasConds() bool { return len(b.conds) > 0 }

// JoinSQL returns the concatenated join fragments (leading space included),
// or "" when no joins were added.
func (b *Builder) JoinSQL() string {
	return strings.Join(b.joins, "")
}

// CondSQL returns the AND-joined predicate fragments, or "" when empty.
func (b *Builder) CondSQL() string {
	return strings.Join(b.conds, " AND ")
}

// GroupBySQL returns a " GROUP BY ..." clause, or "" when empty.
func (b *Builder) GroupBySQL() string {
	if len(b.groupBy) == 0 {
		return ""
	}
	return " GROUP BY " + strings.Join(b.groupBy, ", ")
}

// Args returns the accumulated positional arguments in bind order.
func (b *Builder) Args() []any {
	return b.args
}
