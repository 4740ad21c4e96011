// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package term_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/polyglot/internal/locale"
	"github.com/taibuivan/polyglot/internal/platform/apperr"
	"github.com/taibuivan/polyglot/internal/platform/ctxutil"
	"github.com/taibuivan/polyglot/internal/term"
	"github.com/taibuivan/polyglot/pkg/pointer"
)

// fakeMeta is an in-memory meta.Store.
type fakeMeta struct {
	data map[string]map[string]string
}

func newFakeMeta() *fakeMeta {
	return &fakeMeta{data: make(map[string]map[string]string)}
}

func (f *fakeMeta) set(entityID, key, value string) {
	if f.data[entityID] == nil {
		f.data[entityID] = make(map[string]string)
	}
	f.data[entityID][key] = value
}

func (f *fakeMeta) Get(ctx context.Context, entityID, key string) (string, error) {
	return f.data[entityID][key], nil
}

func (f *fakeMeta) GetAll(ctx context.Context, entityID string) (map[string]string, error) {
	return f.data[entityID], nil
}

func (f *fakeMeta) Upsert(ctx context.Context, entityID, key, value string) error {
	f.set(entityID, key, value)
	return nil
}

func (f *fakeMeta) Delete(ctx context.Context, entityID, key string) error {
	delete(f.data[entityID], key)
	return nil
}

// fakeNonce is an in-memory term.FormTokens with single-use semantics.
type fakeNonce struct {
	issued map[string]string
}

func newFakeNonce() *fakeNonce {
	return &fakeNonce{issued: make(map[string]string)}
}

func (f *fakeNonce) Issue(ctx context.Context, scope string) (string, error) {
	token := "token-" + scope
	f.issued[scope] = token
	return token, nil
}

func (f *fakeNonce) Verify(ctx context.Context, scope, token string) error {
	if token == "" || f.issued[scope] != token {
		return apperr.Forbidden("Form token is invalid or expired")
	}
	delete(f.issued, scope)
	return nil
}

// fakeRepo is an in-memory term.Repository.
type fakeRepo struct {
	terms map[int]*term.Term
}

func (f *fakeRepo) FindByID(ctx context.Context, id int) (*term.Term, error) {
	t, ok := f.terms[id]
	if !ok {
		return nil, apperr.NotFound("Term")
	}
	return t, nil
}

func (f *fakeRepo) ListByTaxonomy(ctx context.Context, taxonomy string) ([]*term.Term, error) {
	var out []*term.Term
	for _, t := range f.terms {
		if t.Taxonomy == taxonomy {
			out = append(out, t)
		}
	}
	return out, nil
}

func newScheme(t *testing.T) *locale.Scheme {
	t.Helper()
	scheme, err := locale.NewScheme(
		locale.Variable{Name: "lang", Slugs: []string{"en", "fr"}, Default: "en"},
	)
	require.NoError(t, err)
	return scheme
}

func newService(t *testing.T, caps term.Capabilities) (*term.Service, *fakeMeta, *fakeRepo) {
	t.Helper()

	registry := term.NewRegistry()
	registry.Register("genre", caps)

	meta := newFakeMeta()
	repo := &fakeRepo{terms: make(map[int]*term.Term)}
	service := term.NewService(repo, meta, newScheme(t), registry, nil, slog.Default())
	return service, meta, repo
}

func genreTerm(id int, name, slug string) *term.Term {
	return &term.Term{ID: id, Taxonomy: "genre", Name: name, Slug: slug}
}

/*
TestService_Name_Plural verifies plural name resolution across capability
combinations.
*/
func TestService_Name_Plural(t *testing.T) {
	ctx := context.Background()

	// Plain taxonomy: "_name_<key>" or native.
	service, meta, _ := newService(t, term.Capabilities{})
	tm := genreTerm(7, "Dramas", "dramas")

	got, err := service.Name(ctx, tm, "fr", false)
	require.NoError(t, err)
	assert.Equal(t, "Dramas", got)

	meta.set("7", "_name_fr", "Drames")
	got, err = service.Name(ctx, tm, "fr", false)
	require.NoError(t, err)
	assert.Equal(t, "Drames", got)

	// Default key always reads the native column.
	got, err = service.Name(ctx, tm, "en", false)
	require.NoError(t, err)
	assert.Equal(t, "Dramas", got)

	// Singular-capable taxonomy: the singular override backs up a missing
	// name override even for the plural form.
	service, meta, _ = newService(t, term.Capabilities{Singular: true})
	meta.set("7", "_singular_name_fr", "Drame")

	got, err = service.Name(ctx, tm, "fr", false)
	require.NoError(t, err)
	assert.Equal(t, "Drame", got)

	meta.set("7", "_name_fr", "Drames")
	got, err = service.Name(ctx, tm, "fr", false)
	require.NoError(t, err)
	assert.Equal(t, "Drames", got)
}

/*
TestService_Name_Singular verifies singular resolution and its capability
gates.
*/
func TestService_Name_Singular(t *testing.T) {
	ctx := context.Background()
	tm := genreTerm(7, "Dramas", "dramas")

	// Singular wanted but the taxonomy never opted in: plural rules apply.
	service, meta, _ := newService(t, term.Capabilities{})
	meta.set("7", "_singular_name_fr", "Drame")

	got, err := service.Name(ctx, tm, "fr", true)
	require.NoError(t, err)
	assert.Equal(t, "Dramas", got)

	// Singular capability: "_singular_name_<key>" first, then "_name_<key>".
	service, meta, _ = newService(t, term.Capabilities{Singular: true})
	meta.set("7", "_name_fr", "Drames")

	got, err = service.Name(ctx, tm, "fr", true)
	require.NoError(t, err)
	assert.Equal(t, "Drames", got)

	meta.set("7", "_singular_name_fr", "Drame")
	got, err = service.Name(ctx, tm, "fr", true)
	require.NoError(t, err)
	assert.Equal(t, "Drame", got)

	// Default key without DefaultSingular: native.
	got, err = service.Name(ctx, tm, "en", true)
	require.NoError(t, err)
	assert.Equal(t, "Dramas", got)

	// Default key with DefaultSingular: the fixed override key.
	service, meta, _ = newService(t, term.Capabilities{Singular: true, DefaultSingular: true})
	meta.set("7", "_default_singular_name", "Drama")

	got, err = service.Name(ctx, tm, "en", true)
	require.NoError(t, err)
	assert.Equal(t, "Drama", got)
}

/*
TestService_Name_DefaultSlugKey verifies the fixed default-singular entry
stays distinct from the per-key singular entry of a locale key literally
named "default".
*/
func TestService_Name_DefaultSlugKey(t *testing.T) {
	ctx := context.Background()

	scheme, err := locale.NewScheme(
		locale.Variable{Name: "lang", Slugs: []string{"en", "default"}, Default: "en"},
	)
	require.NoError(t, err)

	registry := term.NewRegistry()
	registry.Register("genre", term.Capabilities{Singular: true, DefaultSingular: true})

	meta := newFakeMeta()
	repo := &fakeRepo{terms: make(map[int]*term.Term)}
	service := term.NewService(repo, meta, scheme, registry, nil, slog.Default())

	tm := genreTerm(7, "Dramas", "dramas")
	meta.set("7", "_singular_name_default", "PerKey")
	meta.set("7", "_default_singular_name", "Fixed")

	// Locale key "default" reads its own per-key entry.
	got, err := service.Name(ctx, tm, "default", true)
	require.NoError(t, err)
	assert.Equal(t, "PerKey", got)

	// The default locale "en" reads the fixed entry.
	got, err = service.Name(ctx, tm, "en", true)
	require.NoError(t, err)
	assert.Equal(t, "Fixed", got)
}

/*
TestService_Name_UnregisteredTaxonomy verifies terms of unknown taxonomies
always resolve natively.
*/
func TestService_Name_UnregisteredTaxonomy(t *testing.T) {
	ctx := context.Background()
	service, meta, _ := newService(t, term.Capabilities{Singular: true})

	other := &term.Term{ID: 9, Taxonomy: "series", Name: "Ongoing", Slug: "ongoing"}
	meta.set("9", "_name_fr", "En cours")

	got, err := service.Name(ctx, other, "fr", false)
	require.NoError(t, err)
	assert.Equal(t, "Ongoing", got)
}

/*
TestService_Description verifies the description capability gate and the
default-locale passthrough.
*/
func TestService_Description(t *testing.T) {
	ctx := context.Background()
	native := "All dramatic series."
	tm := genreTerm(7, "Dramas", "dramas")
	tm.Description = &native

	// Without the capability the override is invisible.
	service, meta, _ := newService(t, term.Capabilities{})
	meta.set("7", "_description_fr", "Toutes les séries dramatiques.")

	got, err := service.Description(ctx, tm, "fr")
	require.NoError(t, err)
	assert.Equal(t, native, got)

	// With the capability the override wins for non-default keys only.
	service, meta, _ = newService(t, term.Capabilities{Description: true})
	meta.set("7", "_description_fr", "Toutes les séries dramatiques.")

	got, err = service.Description(ctx, tm, "fr")
	require.NoError(t, err)
	assert.Equal(t, "Toutes les séries dramatiques.", got)

	got, err = service.Description(ctx, tm, "en")
	require.NoError(t, err)
	assert.Equal(t, native, got)

	// Nil native description resolves to the empty string.
	bare := genreTerm(8, "Comedy", "comedy")
	got, err = service.Description(ctx, bare, "en")
	require.NoError(t, err)
	assert.Empty(t, got)
}

/*
TestService_Localize verifies the read view carries resolved fields without
mutating the term.
*/
func TestService_Localize(t *testing.T) {
	ctx := context.Background()
	service, meta, _ := newService(t, term.Capabilities{Description: true})

	native := "All dramatic series."
	tm := genreTerm(7, "Dramas", "dramas")
	tm.Description = &native
	meta.set("7", "_name_fr", "Drames")

	view, err := service.Localize(ctx, tm, "fr", false)
	require.NoError(t, err)

	assert.Equal(t, "Drames", view.Name)
	assert.Equal(t, "fr", view.Locale)
	require.NotNil(t, view.Description)
	assert.Equal(t, native, *view.Description)
	assert.Equal(t, "Dramas", tm.Name)
}

/*
TestService_ListByTaxonomy verifies unknown taxonomies are rejected.
*/
func TestService_ListByTaxonomy(t *testing.T) {
	ctx := context.Background()
	service, _, repo := newService(t, term.Capabilities{})
	repo.terms[7] = genreTerm(7, "Dramas", "dramas")

	views, err := service.ListByTaxonomy(ctx, "genre", "en")
	require.NoError(t, err)
	assert.Len(t, views, 1)

	_, err = service.ListByTaxonomy(ctx, "series", "en")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// saveFixture wires a service with a working single-use token source.
type saveFixture struct {
	service *term.Service
	meta    *fakeMeta
	repo    *fakeRepo
}

func newSaveFixture(t *testing.T, caps term.Capabilities) *saveFixture {
	t.Helper()

	registry := term.NewRegistry()
	registry.Register("genre", caps)

	meta := newFakeMeta()
	repo := &fakeRepo{terms: make(map[int]*term.Term)}
	service := term.NewService(repo, meta, newScheme(t), registry, newFakeNonce(), slog.Default())
	return &saveFixture{service: service, meta: meta, repo: repo}
}

/*
TestService_SaveOverrides verifies the write→read-back path: non-empty
values are stored and resolve on the next read, empty values delete the
stored entry.
*/
func TestService_SaveOverrides(t *testing.T) {
	ctx := context.Background()
	f := newSaveFixture(t, term.Capabilities{Singular: true, DefaultSingular: true, Description: true})

	tm := genreTerm(7, "Dramas", "dramas")
	f.repo.terms[7] = tm
	f.meta.set("7", "_name_fr", "stale")

	token, err := f.service.IssueFormToken(ctx, 7)
	require.NoError(t, err)

	err = f.service.SaveOverrides(ctx, term.SaveOverridesInput{
		TermID:          7,
		FormToken:       token,
		Names:           map[string]string{"fr": ""},
		Singulars:       map[string]string{"fr": "Drame"},
		Descriptions:    map[string]string{"fr": "Séries dramatiques"},
		DefaultSingular: pointer.To("Drama"),
	})
	require.NoError(t, err)

	// An empty submitted name deletes the previously stored entry.
	_, ok := f.meta.data["7"]["_name_fr"]
	assert.False(t, ok)

	// The remaining fields read back through resolution.
	got, err := f.service.Name(ctx, tm, "fr", true)
	require.NoError(t, err)
	assert.Equal(t, "Drame", got)

	got, err = f.service.Description(ctx, tm, "fr")
	require.NoError(t, err)
	assert.Equal(t, "Séries dramatiques", got)

	got, err = f.service.Name(ctx, tm, "en", true)
	require.NoError(t, err)
	assert.Equal(t, "Drama", got)

	// An empty default singular clears the fixed entry.
	token, err = f.service.IssueFormToken(ctx, 7)
	require.NoError(t, err)
	err = f.service.SaveOverrides(ctx, term.SaveOverridesInput{
		TermID:          7,
		FormToken:       token,
		DefaultSingular: pointer.To(""),
	})
	require.NoError(t, err)

	got, err = f.service.Name(ctx, tm, "en", true)
	require.NoError(t, err)
	assert.Equal(t, "Dramas", got)
}

/*
TestService_SaveOverrides_CapabilityGates verifies override kinds the
taxonomy never opted into are rejected before any write.
*/
func TestService_SaveOverrides_CapabilityGates(t *testing.T) {
	ctx := context.Background()
	f := newSaveFixture(t, term.Capabilities{})
	f.repo.terms[7] = genreTerm(7, "Dramas", "dramas")

	token, err := f.service.IssueFormToken(ctx, 7)
	require.NoError(t, err)

	err = f.service.SaveOverrides(ctx, term.SaveOverridesInput{
		TermID:          7,
		FormToken:       token,
		Singulars:       map[string]string{"fr": "Drame"},
		Descriptions:    map[string]string{"fr": "Séries"},
		DefaultSingular: pointer.To("Drama"),
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Len(t, ae.Details, 3)
	assert.Empty(t, f.meta.data["7"])
}

/*
TestService_SaveOverrides_TokenSingleUse verifies a form token never
authorizes two submissions.
*/
func TestService_SaveOverrides_TokenSingleUse(t *testing.T) {
	ctx := context.Background()
	f := newSaveFixture(t, term.Capabilities{})
	f.repo.terms[7] = genreTerm(7, "Dramas", "dramas")

	token, err := f.service.IssueFormToken(ctx, 7)
	require.NoError(t, err)

	input := term.SaveOverridesInput{
		TermID:    7,
		FormToken: token,
		Names:     map[string]string{"fr": "Drames"},
	}
	require.NoError(t, f.service.SaveOverrides(ctx, input))

	err = f.service.SaveOverrides(ctx, input)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

/*
TestScopeIndex verifies locale keys map to the scope term ids, with missing
scope terms skipped.
*/
func TestScopeIndex(t *testing.T) {
	ctx := context.Background()

	scheme, err := locale.NewScheme(
		locale.Variable{Name: "lang", Slugs: []string{"en", "fr"}, Default: "en"},
		locale.Variable{Name: "region", Slugs: []string{"us", "uk"}, Default: "us"},
	)
	require.NoError(t, err)

	repo := &fakeRepo{terms: map[int]*term.Term{
		1: {ID: 1, Taxonomy: "lang", Name: "English", Slug: "en"},
		2: {ID: 2, Taxonomy: "lang", Name: "French", Slug: "fr"},
		3: {ID: 3, Taxonomy: "region", Name: "US", Slug: "us"},
		// No term row for region "uk".
	}}

	index, err := term.NewScopeIndex(ctx, repo, scheme, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, index.TermIDs("en_us"))
	assert.Equal(t, []int{2, 3}, index.TermIDs("fr_us"))

	// The missing scope term restricts by the remaining ids only.
	assert.Equal(t, []int{2}, index.TermIDs("fr_uk"))

	// Empty key resolves as the default; unknown keys resolve to nil.
	assert.Equal(t, []int{1, 3}, index.TermIDs(""))
	assert.Nil(t, index.TermIDs("de_us"))

	// The supplier reads the key resolved into the request context.
	supplier := index.Supplier()
	assert.Equal(t, []int{2, 3}, supplier(ctxutil.WithLocaleKey(ctx, "fr_us")))
	assert.Equal(t, []int{1, 3}, supplier(ctx))
}
