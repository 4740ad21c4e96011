// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hook_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/polyglot/internal/hook"
)

func appendFilter(suffix string) hook.FilterFunc {
	return func(ctx context.Context, value string) string {
		return value + suffix
	}
}

/*
TestBus_Apply verifies filters run in priority order, ties broken by
registration order.
*/
func TestBus_Apply(t *testing.T) {
	ctx := context.Background()
	bus := hook.NewBus()

	bus.AddFilter(hook.PointRenderContent, "late", 20, appendFilter("|late"))
	bus.AddFilter(hook.PointRenderContent, "early", 10, appendFilter("|early"))
	bus.AddFilter(hook.PointRenderContent, "early_second", 10, appendFilter("|second"))

	got := bus.Apply(ctx, hook.PointRenderContent, "base")
	assert.Equal(t, "base|early|second|late", got)

	// An unknown point passes the value through unchanged.
	assert.Equal(t, "base", bus.Apply(ctx, "unknown.point", "base"))
}

/*
TestBus_AddFilter_Replace verifies re-registering a name replaces the
function but keeps a single chain entry.
*/
func TestBus_AddFilter_Replace(t *testing.T) {
	ctx := context.Background()
	bus := hook.NewBus()

	bus.AddFilter(hook.PointRenderTitle, "decorate", 10, appendFilter("|v1"))
	bus.AddFilter(hook.PointRenderTitle, "decorate", 10, appendFilter("|v2"))

	got := bus.Apply(ctx, hook.PointRenderTitle, "t")
	assert.Equal(t, "t|v2", got)
	assert.Equal(t, 1, strings.Count(got, "|"))
}

/*
TestBus_ApplyExcept verifies one named filter can be skipped for a single
application without mutating the chain.
*/
func TestBus_ApplyExcept(t *testing.T) {
	ctx := context.Background()
	bus := hook.NewBus()

	bus.AddFilter(hook.PointRenderContent, "a", 10, appendFilter("|a"))
	bus.AddFilter(hook.PointRenderContent, "b", 20, appendFilter("|b"))

	assert.Equal(t, "x|b", bus.ApplyExcept(ctx, hook.PointRenderContent, "a", "x"))

	// The chain itself is untouched.
	assert.Equal(t, "x|a|b", bus.Apply(ctx, hook.PointRenderContent, "x"))
}

/*
TestBus_RemoveFilter verifies removal by name.
*/
func TestBus_RemoveFilter(t *testing.T) {
	ctx := context.Background()
	bus := hook.NewBus()

	bus.AddFilter(hook.PointRenderContent, "a", 10, appendFilter("|a"))

	assert.True(t, bus.RemoveFilter(hook.PointRenderContent, "a"))
	assert.False(t, bus.RemoveFilter(hook.PointRenderContent, "a"))
	assert.Equal(t, "x", bus.Apply(ctx, hook.PointRenderContent, "x"))
}

/*
TestBus_Actions verifies action chains run in priority order.
*/
func TestBus_Actions(t *testing.T) {
	ctx := context.Background()
	bus := hook.NewBus()

	var order []string
	bus.AddAction("content.saved", "second", 20, func(ctx context.Context) {
		order = append(order, "second")
	})
	bus.AddAction("content.saved", "first", 10, func(ctx context.Context) {
		order = append(order, "first")
	})

	bus.Do(ctx, "content.saved")
	assert.Equal(t, []string{"first", "second"}, order)

	// Unknown points are a no-op.
	bus.Do(ctx, "unknown.point")
}

/*
TestBus_ConcurrentApply verifies concurrent applications do not race with
each other.
*/
func TestBus_ConcurrentApply(t *testing.T) {
	ctx := context.Background()
	bus := hook.NewBus()
	bus.AddFilter(hook.PointRenderContent, "a", 10, appendFilter("|a"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "x|a", bus.Apply(ctx, hook.PointRenderContent, "x"))
		}()
	}
	wg.Wait()
}
