package term

import (
	"context"
	"log/slog"

	"github.com/taibuivan/polyglot/internal/locale"
	"github.com/taibuivan/polyglot/internal/platform/ctxutil"
	"github.com/taibuivan/polyglot/internal/termfilter"
)

// ScopeIndex maps locale keys to the term-taxonomy ids whose terms carry the
// key's slugs. Each locale variable corresponds to a taxonomy of the same
// name whose term slugs are the variable's slugs.
//
// The index is built once at startup and is immutable afterwards, so it is
// safe for concurrent use. Restarting the service picks up newly created
// scope terms.
type ScopeIndex struct {
	scheme *locale.Scheme
	byKey  map[locale.Key][]int
}

// NewScopeIndex loads the scope terms for every locale variable and
// precomputes the id list for every key the scheme can produce.
//
// A slug with no matching term row is skipped with a warning rather than
// failing startup; queries for keys touching it are restricted by the
// remaining ids only.
func NewScopeIndex(ctx context.Context, repo Repository, scheme *locale.Scheme, logger *slog.Logger) (*ScopeIndex, error) {
	slugToID := make(map[string]map[string]int)

	for _, variable := range scheme.Variables() {
		terms, err := repo.ListByTaxonomy(ctx, variable.Name)
		if err != nil {
			return nil, err
		}

		ids := make(map[string]int, len(terms))
		for _, t := range terms {
			ids[t.Slug] = t.ID
		}
		slugToID[variable.Name] = ids
	}

	variables := scheme.Variables()
	byKey := make(map[locale.Key][]int)

	for key, combination := range scheme.KeyToCombination(false) {
		ids := make([]int, 0, len(combination))
		for i, slug := range combination {
			id, ok := slugToID[variables[i].Name][slug]
			if !ok {
				logger.Warn("scope_term_missing",
					slog.String("taxonomy", variables[i].Name),
					slog.String("slug", slug),
				)
				continue
			}
			ids = append(ids, id)
		}
		byKey[key] = ids
	}

	return &ScopeIndex{scheme: scheme, byKey: byKey}, nil
}

// TermIDs returns the term-taxonomy ids for a locale key, or nil for keys
// the scheme does not produce.
func (index *ScopeIndex) TermIDs(key locale.Key) []int {
	if key == "" {
		key = index.scheme.DefaultKey()
	}
	return index.byKey[key]
}

// Supplier adapts the index to a [termfilter.Supplier] reading the resolved
// locale key from the request context.
func (index *ScopeIndex) Supplier() termfilter.Supplier {
	return func(ctx context.Context) []int {
		return index.TermIDs(ctxutil.GetLocaleKey(ctx))
	}
}
