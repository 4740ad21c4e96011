// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package content implements localized post delivery: archive listing,
// adjacent navigation, full-text search, and per-locale title/content
// overrides stored as post metadata.
//
// # Architecture
//
//   - content.go: domain models and the post-type registry.
//   - store.go / store_postgres.go: persistence boundary.
//   - service.go: override resolution and business rules.
//   - http.go: chi handlers (Presentation layer).
//
// Localization never mutates a [Post]. Resolved values are carried in a
// [Localized] view so that the underlying entity stays a faithful image
// of its database row.
package content

import (
	"sort"
	"sync"
	"time"
)

// Post statuses stored in cms.post.status.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Post represents a row in cms.post. Title and Content always hold the
// default-locale values; non-default locales live in cms.postmeta.
type Post struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// Localized is the read view of a [Post] with Title and Content resolved
// for a specific locale key. The embedded Post fields keep their JSON
// names, so consumers see a regular post with substituted text.
type Localized struct {
	Post
	Locale string `json:"locale"`
}

// # Post Type Registry

// Labels holds the display names attached to a registered post type.
type Labels struct {
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
}

// Registry tracks the post types the installation serves.
//
// Registration happens once at startup in main.go; lookups afterwards are
// read-only, so the registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Labels
}

// NewRegistry creates an empty post-type registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Labels)}
}

// AddPostType registers a post type. Registering the same name twice
// replaces the labels.
func (r *Registry) AddPostType(name string, labels Labels) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = labels
}

// Has reports whether the post type is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[name]
	return ok
}

// Labels returns the display labels for a registered post type.
func (r *Registry) Labels(name string) (Labels, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	labels, ok := r.types[name]
	return labels, ok
}

// Types returns all registered post type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
