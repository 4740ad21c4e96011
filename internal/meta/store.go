// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package meta provides the per-entity metadata store backing locale overrides.

Each entry is keyed by (entity id, metadata key) and holds a string value.
An absent or empty value means "no override for this key" — the
default-locale content lives in the entity's native column, never here.
Entries are created or overwritten only when an editor confirms a non-empty
value, and deleted when the submitted value is empty; reads never create
entries implicitly.

Upserts and deletes are atomic per key. A save that touches several keys is
not atomic as a whole; partial failure mid-loop is an accepted low-severity
risk given request-scoped execution.
*/
package meta

import "context"

// Store reads and writes metadata entries for one entity family
// (posts or terms).
type Store interface {
	// Get returns the value for (entityID, key), or "" when absent.
	// Absence is a normal state, not an error.
	Get(ctx context.Context, entityID, key string) (string, error)

	// GetAll returns every metadata entry for an entity.
	GetAll(ctx context.Context, entityID string) (map[string]string, error)

	// Upsert creates or overwrites the entry for (entityID, key).
	Upsert(ctx context.Context, entityID, key, value string) error

	// Delete removes the entry for (entityID, key). Deleting an absent
	// entry is not an error.
	Delete(ctx context.Context, entityID, key string) error
}
