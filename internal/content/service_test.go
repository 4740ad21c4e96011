// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/polyglot/internal/content"
	"github.com/taibuivan/polyglot/internal/hook"
	"github.com/taibuivan/polyglot/internal/locale"
	"github.com/taibuivan/polyglot/internal/platform/apperr"
	"github.com/taibuivan/polyglot/pkg/pagination"
)

// fakeMeta is an in-memory meta.Store recording every Get call.
type fakeMeta struct {
	data map[string]map[string]string
	gets []string
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
	f.gets = append(f.gets, key)
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

// fakeNonce is an in-memory content.FormTokens with single-use semantics.
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

// fakeRepo is an in-memory content.Repository.
type fakeRepo struct {
	posts map[string]*content.Post
	list  []*content.Post
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*content.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	return post, nil
}

func (f *fakeRepo) Archive(ctx context.Context, postType string, params pagination.Params) ([]*content.Post, int, error) {
	return f.list, len(f.list), nil
}

func (f *fakeRepo) Adjacent(ctx context.Context, reference *content.Post, next bool) (*content.Post, error) {
	return nil, nil
}

func (f *fakeRepo) Search(ctx context.Context, query string, params pagination.Params) ([]*content.Post, int, error) {
	return f.list, len(f.list), nil
}

// fixture wires a service over the two-axis scheme {lang: en*/fr, region: us*/uk}.
type fixture struct {
	service *content.Service
	meta    *fakeMeta
	repo    *fakeRepo
	hooks   *hook.Bus
	nonces  *fakeNonce
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	scheme, err := locale.NewScheme(
		locale.Variable{Name: "lang", Slugs: []string{"en", "fr"}, Default: "en"},
		locale.Variable{Name: "region", Slugs: []string{"us", "uk"}, Default: "us"},
	)
	require.NoError(t, err)

	registry := content.NewRegistry()
	registry.AddPostType("post", content.Labels{Singular: "Post", Plural: "Posts"})

	meta := newFakeMeta()
	repo := &fakeRepo{posts: make(map[string]*content.Post)}
	hooks := hook.NewBus()
	nonces := newFakeNonce()

	service := content.NewService(repo, meta, scheme, registry, hooks, nonces, nil, slog.Default())
	return &fixture{service: service, meta: meta, repo: repo, hooks: hooks, nonces: nonces}
}

func publishedPost(id, title, body string) *content.Post {
	now := time.Now()
	return &content.Post{
		ID:          id,
		Type:        "post",
		Status:      content.StatusPublished,
		Title:       title,
		Content:     body,
		PublishedAt: &now,
	}
}

/*
TestService_Title verifies override resolution for titles.
*/
func TestService_Title(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := publishedPost("p1", "Hello", "Body")

	// Default key: native title, no metadata lookups at all.
	title, err := f.service.Title(ctx, post, "en_us")
	require.NoError(t, err)
	assert.Equal(t, "Hello", title)
	assert.Empty(t, f.meta.gets)

	// Empty key behaves as the default key.
	title, err = f.service.Title(ctx, post, "")
	require.NoError(t, err)
	assert.Equal(t, "Hello", title)
	assert.Empty(t, f.meta.gets)

	// Non-default key without an override falls back to native.
	title, err = f.service.Title(ctx, post, "fr_uk")
	require.NoError(t, err)
	assert.Equal(t, "Hello", title)
	assert.Equal(t, []string{"_post_title_fr_uk"}, f.meta.gets)

	// Stored override wins.
	f.meta.set("p1", "_post_title_fr_uk", "Bonjour")
	title, err = f.service.Title(ctx, post, "fr_uk")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", title)
}

/*
TestService_DecoratedTitle verifies in-place substitution inside decorated
title strings.
*/
func TestService_DecoratedTitle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := publishedPost("p1", "Hello", "Body")
	f.meta.set("p1", "_post_title_fr_us", "Bonjour")

	// The native title is replaced once, decoration preserved.
	got, err := f.service.DecoratedTitle(ctx, post, "Site | Hello | 2026", "fr_us")
	require.NoError(t, err)
	assert.Equal(t, "Site | Bonjour | 2026", got)

	// Default key: the decorated string passes through untouched.
	got, err = f.service.DecoratedTitle(ctx, post, "Site | Hello", "en_us")
	require.NoError(t, err)
	assert.Equal(t, "Site | Hello", got)

	// Empty native title: nothing anchors a replacement, the override is
	// concatenated instead.
	empty := publishedPost("p2", "", "Body")
	f.meta.set("p2", "_post_title_fr_us", "Bonjour")
	got, err = f.service.DecoratedTitle(ctx, empty, "Site | ", "fr_us")
	require.NoError(t, err)
	assert.Equal(t, "Site | Bonjour", got)

	// A whitespace-only native title must never be used as a replacement
	// pattern; it normalizes to empty and concatenates too.
	blank := publishedPost("p3", " ", "Body")
	f.meta.set("p3", "_post_title_fr_us", "Bonjour")
	got, err = f.service.DecoratedTitle(ctx, blank, "Site | Untitled", "fr_us")
	require.NoError(t, err)
	assert.Equal(t, "Site | UntitledBonjour", got)

	// The replacement pattern is the normalized native title, so decoration
	// that trimmed surrounding whitespace still matches.
	padded := publishedPost("p4", " Hello ", "Body")
	f.meta.set("p4", "_post_title_fr_us", "Bonjour")
	got, err = f.service.DecoratedTitle(ctx, padded, "Site | Hello | 2026", "fr_us")
	require.NoError(t, err)
	assert.Equal(t, "Site | Bonjour | 2026", got)
}

/*
TestService_RenderContent verifies the two-phase render: source selection
first, then the hook chain exactly once.
*/
func TestService_RenderContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := publishedPost("p1", "Hello", "native body")
	f.meta.set("p1", "_post_content_fr_uk", "corps traduit")

	calls := 0
	f.hooks.AddFilter(hook.PointRenderContent, "wrap", 10, func(ctx context.Context, value string) string {
		calls++
		return "<p>" + value + "</p>"
	})

	// Override chosen, chain applied once.
	got, err := f.service.RenderContent(ctx, post, "fr_uk")
	require.NoError(t, err)
	assert.Equal(t, "<p>corps traduit</p>", got)
	assert.Equal(t, 1, calls)

	// Default key renders the native body, chain still applied.
	got, err = f.service.RenderContent(ctx, post, "en_us")
	require.NoError(t, err)
	assert.Equal(t, "<p>native body</p>", got)

	// Missing override: native body.
	got, err = f.service.RenderContent(ctx, post, "fr_us")
	require.NoError(t, err)
	assert.Equal(t, "<p>native body</p>", got)
}

/*
TestService_Localize verifies the decorated view carries resolved fields
and the resolved locale.
*/
func TestService_Localize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := publishedPost("p1", "Hello", "Body")
	f.meta.set("p1", "_post_title_fr_uk", "Bonjour")
	f.meta.set("p1", "_post_content_fr_uk", "Corps")

	view, err := f.service.Localize(ctx, post, "fr_uk")
	require.NoError(t, err)

	assert.Equal(t, "Bonjour", view.Title)
	assert.Equal(t, "Corps", view.Content)
	assert.Equal(t, "fr_uk", view.Locale)

	// The underlying post is never mutated.
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "Body", post.Content)
}

/*
TestService_GetPost verifies unpublished posts are hidden.
*/
func TestService_GetPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	draft := publishedPost("d1", "Draft", "Body")
	draft.Status = content.StatusDraft
	f.repo.posts["d1"] = draft

	_, err := f.service.GetPost(ctx, "d1", "en_us")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_ListArchive verifies unknown post types are rejected.
*/
func TestService_ListArchive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.list = []*content.Post{publishedPost("p1", "Hello", "Body")}

	views, meta, err := f.service.ListArchive(ctx, "post", "en_us", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 1, meta.Total)

	_, _, err = f.service.ListArchive(ctx, "event", "en_us", pagination.Params{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_Search verifies blank queries are rejected before hitting storage.
*/
func TestService_Search(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.service.Search(ctx, "   ", "en_us", pagination.Params{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_AdjacentPost verifies archive boundaries yield a nil view.
*/
func TestService_AdjacentPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.posts["p1"] = publishedPost("p1", "Hello", "Body")

	view, err := f.service.AdjacentPost(ctx, "p1", true, "en_us")
	require.NoError(t, err)
	assert.Nil(t, view)
}

/*
TestService_SaveOverrides verifies the write→read-back path: non-empty
values are stored (sanitized) and resolve on the next read, empty values
delete the stored entry.
*/
func TestService_SaveOverrides(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := publishedPost("p1", "Hello", "Body")
	f.repo.posts["p1"] = post
	f.meta.set("p1", "_post_content_fr_us", "stale")

	token, err := f.service.IssueFormToken(ctx, "p1")
	require.NoError(t, err)

	err = f.service.SaveOverrides(ctx, content.SaveOverridesInput{
		PostID:    "p1",
		FormToken: token,
		Titles:    map[string]string{"fr_uk": "Bonjour\r\nMonde"},
		Contents:  map[string]string{"fr_uk": "Corps", "fr_us": ""},
	})
	require.NoError(t, err)

	// Line endings are normalized before storage.
	assert.Equal(t, "Bonjour\nMonde", f.meta.data["p1"]["_post_title_fr_uk"])

	// Read-back resolves the freshly stored overrides.
	title, err := f.service.Title(ctx, post, "fr_uk")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour\nMonde", title)

	body, err := f.service.RenderContent(ctx, post, "fr_uk")
	require.NoError(t, err)
	assert.Equal(t, "Corps", body)

	// An empty submitted value deletes the entry instead of storing "".
	_, ok := f.meta.data["p1"]["_post_content_fr_us"]
	assert.False(t, ok)
}

/*
TestService_SaveOverrides_TokenSingleUse verifies a form token never
authorizes two submissions.
*/
func TestService_SaveOverrides_TokenSingleUse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.posts["p1"] = publishedPost("p1", "Hello", "Body")

	token, err := f.service.IssueFormToken(ctx, "p1")
	require.NoError(t, err)

	input := content.SaveOverridesInput{
		PostID:    "p1",
		FormToken: token,
		Titles:    map[string]string{"fr_uk": "Bonjour"},
	}
	require.NoError(t, f.service.SaveOverrides(ctx, input))

	err = f.service.SaveOverrides(ctx, input)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

/*
TestService_SaveOverrides_InvalidKey verifies keys outside the scheme are
rejected before any write, including the default key itself.
*/
func TestService_SaveOverrides_InvalidKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.posts["p1"] = publishedPost("p1", "Hello", "Body")

	for _, key := range []string{"de_us", "en_us"} {
		token, err := f.service.IssueFormToken(ctx, "p1")
		require.NoError(t, err)

		err = f.service.SaveOverrides(ctx, content.SaveOverridesInput{
			PostID:    "p1",
			FormToken: token,
			Titles:    map[string]string{key: "Bonjour"},
		})
		require.Error(t, err, key)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code, key)
		assert.Empty(t, f.meta.data["p1"], key)
	}
}

/*
TestService_SaveOverrides_Autosave verifies autosaves are acknowledged
without writing anything.
*/
func TestService_SaveOverrides_Autosave(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.posts["p1"] = publishedPost("p1", "Hello", "Body")

	err := f.service.SaveOverrides(ctx, content.SaveOverridesInput{
		PostID:   "p1",
		Autosave: true,
		Titles:   map[string]string{"fr_uk": "Bonjour"},
	})
	require.NoError(t, err)
	assert.Empty(t, f.meta.data["p1"])
}
