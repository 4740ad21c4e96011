// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package term implements localized taxonomy terms: name, singular-name, and
// description overrides stored as term metadata, plus the scope index that
// maps locale keys to the term-taxonomy ids used for query restriction.
//
// # Architecture
//
// Mirrors internal/content: model and registry here, persistence in
// store_postgres.go, resolution rules in service.go, HTTP in http.go.
// The scope index (scope.go) is the bridge between the locale scheme and
// internal/termfilter.
package term

import (
	"sync"
)

// Term represents a row in cms.term. One row exists per (term, taxonomy)
// pair; ID is the term-taxonomy id referenced by cms.termrelationship.
type Term struct {
	ID          int     `json:"id"`
	Taxonomy    string  `json:"taxonomy"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// Localized is the read view of a [Term] with Name and Description resolved
// for a specific locale key.
type Localized struct {
	Term
	Locale string `json:"locale"`
}

// # Taxonomy Registry

// Capabilities declares which override kinds a taxonomy supports.
type Capabilities struct {
	// Singular enables per-locale singular-name overrides.
	Singular bool

	// DefaultSingular enables a singular-name override for the DEFAULT
	// locale, stored under a fixed key. Only meaningful with Singular.
	DefaultSingular bool

	// Description enables per-locale description overrides.
	Description bool
}

// Registry tracks the taxonomies the installation localizes and their
// capabilities. Registration happens once at startup; lookups afterwards
// are read-only.
type Registry struct {
	mu         sync.RWMutex
	taxonomies map[string]Capabilities
}

// NewRegistry creates an empty taxonomy registry.
func NewRegistry() *Registry {
	return &Registry{taxonomies: make(map[string]Capabilities)}
}

// Register adds a taxonomy. Registering the same name twice replaces the
// capabilities.
func (r *Registry) Register(taxonomy string, caps Capabilities) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.taxonomies[taxonomy] = caps
}

// Capabilities returns the capabilities of a registered taxonomy.
func (r *Registry) Capabilities(taxonomy string) (Capabilities, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	caps, ok := r.taxonomies[taxonomy]
	return caps, ok
}

// Has reports whether the taxonomy is registered.
func (r *Registry) Has(taxonomy string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.taxonomies[taxonomy]
	return ok
}
