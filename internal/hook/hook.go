// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package hook provides an in-process filter/action bus.

Filters transform a string value through a priority-ordered chain of named
callbacks (e.g. the content-rendering pipeline); actions are side-effecting
callbacks fired at named extension points. Lower priority runs first; equal
priorities run in registration order.

Architecture:

  - Registration happens during startup wiring; Apply/Do run per request.
  - The content override engine never registers a substitution filter here.
    It chooses its source text first (override or native) and then runs the
    chain exactly once, so no stage ever needs to deregister itself around a
    recursive invocation. [Bus.ApplyExcept] remains for host extensions that
    must skip one named stage for a single pass.
*/
package hook

import (
	"context"
	"sort"
	"sync"
)

// Content rendering extension points.
const (
	// PointRenderContent transforms a post body before delivery.
	PointRenderContent = "content.render"

	// PointRenderTitle transforms a decorated post title before delivery.
	PointRenderTitle = "title.render"
)

// FilterFunc transforms a value at a filter extension point.
type FilterFunc func(ctx context.Context, value string) string

// ActionFunc runs side effects at an action extension point.
type ActionFunc func(ctx context.Context)

type entry struct {
	name     string
	priority int
	seq      int
	filter   FilterFunc
	action   ActionFunc
}

// Bus dispatches filters and actions registered against named extension points.
//
// # Concurrency
//
// Registration normally happens once at startup, but the Bus is guarded by a
// RWMutex so late registration from request handlers cannot race Apply.
type Bus struct {
	mu      sync.RWMutex
	seq     int
	filters map[string][]entry
	actions map[string][]entry
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		filters: make(map[string][]entry),
		actions: make(map[string][]entry),
	}
}

// AddFilter registers a named filter at an extension point.
// Re-registering an existing name replaces the previous callback.
func (b *Bus) AddFilter(point, name string, priority int, fn FilterFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.removeLocked(b.filters, point, name)
	b.seq++
	b.filters[point] = sortedInsert(b.filters[point], entry{
		name: name, priority: priority, seq: b.seq, filter: fn,
	})
}

// RemoveFilter deregisters a named filter. It reports whether it existed.
func (b *Bus) RemoveFilter(point, name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeLocked(b.filters, point, name)
}

// Apply runs value through every filter registered at point, in priority order.
func (b *Bus) Apply(ctx context.Context, point, value string) string {
	return b.ApplyExcept(ctx, point, "", value)
}

// ApplyExcept runs value through every filter at point except the one named
// exclude. An empty exclude skips nothing.
func (b *Bus) ApplyExcept(ctx context.Context, point, exclude, value string) string {
	b.mu.RLock()
	chain := make([]entry, len(b.filters[point]))
	copy(chain, b.filters[point])
	b.mu.RUnlock()

	for _, e := range chain {
		if exclude != "" && e.name == exclude {
			continue
		}
		value = e.filter(ctx, value)
	}
	return value
}

// AddAction registers a named action at an extension point.
func (b *Bus) AddAction(point, name string, priority int, fn ActionFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.removeLocked(b.actions, point, name)
	b.seq++
	b.actions[point] = sortedInsert(b.actions[point], entry{
		name: name, priority: priority, seq: b.seq, action: fn,
	})
}

// Do fires every action registered at point, in priority order.
func (b *Bus) Do(ctx context.Context, point string) {
	b.mu.RLock()
	chain := make([]entry, len(b.actions[point]))
	copy(chain, b.actions[point])
	b.mu.RUnlock()

	for _, e := range chain {
		e.action(ctx)
	}
}

// removeLocked deletes a named entry from a point's chain. Caller holds mu.
func (b *Bus) removeLocked(m map[string][]entry, point, name string) bool {
	chain := m[point]
	for i, e := range chain {
		if e.name == name {
			m[point] = append(chain[:i:i], chain[i+1:]...)
			return true
		}
	}
	return false
}

// sortedInsert keeps the chain ordered by (priority, registration sequence).
func sortedInsert(chain []entry, e entry) []entry {
	chain = append(chain, e)
	sort.SliceStable(chain, func(i, j int) bool {
		if chain[i].priority != chain[j].priority {
			return chain[i].priority < chain[j].priority
		}
		return chain[i].seq < chain[j].seq
	})
	return chain
}
