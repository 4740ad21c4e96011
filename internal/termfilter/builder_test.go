// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package termfilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/polyglot/internal/termfilter"
)

/*
TestJoinChain verifies one aliased self-join is emitted per required term.
*/
func TestJoinChain(t *testing.T) {
	assert.Empty(t, termfilter.JoinChain(0, "p", termfilter.JoinInner))
	assert.Empty(t, termfilter.JoinChain(-1, "p", termfilter.JoinInner))

	one := termfilter.JoinChain(1, "p", termfilter.JoinInner)
	assert.Equal(t, " INNER JOIN cms.termrelationship AS tr0 ON p.id = tr0.objectid", one)

	three := termfilter.JoinChain(3, "p", termfilter.JoinInner)
	assert.Contains(t, three, "AS tr0 ON p.id = tr0.objectid")
	assert.Contains(t, three, "AS tr1 ON p.id = tr1.objectid")
	assert.Contains(t, three, "AS tr2 ON p.id = tr2.objectid")
	assert.NotContains(t, three, "tr3")

	left := termfilter.JoinChain(1, "p", termfilter.JoinLeft)
	assert.Contains(t, left, "LEFT JOIN")
}

/*
TestWhereAll verifies each join alias is tied to exactly one id via a
positional placeholder, in order.
*/
func TestWhereAll(t *testing.T) {
	cond, args := termfilter.WhereAll(nil, 1)
	assert.Empty(t, cond)
	assert.Nil(t, args)

	cond, args = termfilter.WhereAll([]int{7, 9}, 3)
	assert.Equal(t, "tr0.termtaxonomyid = $3 AND tr1.termtaxonomyid = $4", cond)
	assert.Equal(t, []any{7, 9}, args)
}

/*
TestBuilder_Bind verifies placeholder numbering and argument accumulation.
*/
func TestBuilder_Bind(t *testing.T) {
	builder := termfilter.NewBuilder("p", 1)

	assert.Equal(t, "$1", builder.Bind("post"))
	assert.Equal(t, "$2", builder.Bind(42))
	assert.Equal(t, 3, builder.NextArg())
	assert.Equal(t, []any{"post", 42}, builder.Args())
}

/*
TestBuilder_Assembly verifies fragment accumulation and final clause output.
*/
func TestBuilder_Assembly(t *testing.T) {
	builder := termfilter.NewBuilder("p", 1)
	assert.False(t, builder.HasConds())

	builder.AddCond("p.type = " + builder.Bind("post"))
	builder.AddCond("p.status = " + builder.Bind("published"))
	builder.AddJoin(" INNER JOIN cms.termrelationship AS tr0 ON p.id = tr0.objectid")

	// Empty fragments are ignored.
	builder.AddCond("")
	builder.AddJoin("")

	assert.True(t, builder.HasConds())
	assert.Equal(t, "p.type = $1 AND p.status = $2", builder.CondSQL())
	assert.Equal(t, " INNER JOIN cms.termrelationship AS tr0 ON p.id = tr0.objectid", builder.JoinSQL())
}

/*
TestBuilder_EnsureGroupBy verifies blank and duplicate columns are skipped.
*/
func TestBuilder_EnsureGroupBy(t *testing.T) {
	builder := termfilter.NewBuilder("p", 1)
	assert.Empty(t, builder.GroupBySQL())

	builder.EnsureGroupBy("p.id")
	builder.EnsureGroupBy("p.id")
	builder.EnsureGroupBy("  ")
	assert.Equal(t, " GROUP BY p.id", builder.GroupBySQL())

	builder.EnsureGroupBy("p.type")
	assert.Equal(t, " GROUP BY p.id, p.type", builder.GroupBySQL())
}

/*
TestBuildCountQuery verifies the standalone count query shape.
*/
func TestBuildCountQuery(t *testing.T) {
	query, args := termfilter.BuildCountQuery([]string{"post"}, []int{5, 6})

	require.Contains(t, query, "SELECT COUNT(*)")
	assert.Contains(t, query, "FROM cms.post p")
	assert.Contains(t, query, "AS tr0 ON p.id = tr0.objectid")
	assert.Contains(t, query, "AS tr1 ON p.id = tr1.objectid")
	assert.Contains(t, query, "p.type = ANY($1)")
	assert.Contains(t, query, "p.status = $2")
	assert.Contains(t, query, "tr0.termtaxonomyid = $3")
	assert.Contains(t, query, "tr1.termtaxonomyid = $4")
	require.Len(t, args, 4)
	assert.Equal(t, []string{"post"}, args[0])
	assert.Equal(t, "published", args[1])
	assert.Equal(t, 5, args[2])
	assert.Equal(t, 6, args[3])
}

/*
TestBuildCountQuery_NoTerms verifies the query degrades to a plain count.
*/
func TestBuildCountQuery_NoTerms(t *testing.T) {
	query, args := termfilter.BuildCountQuery([]string{"post", "page"}, nil)

	assert.NotContains(t, query, "JOIN")
	assert.NotContains(t, query, "termtaxonomyid")
	require.Len(t, args, 2)
	assert.Equal(t, []string{"post", "page"}, args[0])
	assert.Equal(t, "published", args[1])
}
