package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/polyglot/internal/hook"
	"github.com/taibuivan/polyglot/internal/locale"
	"github.com/taibuivan/polyglot/internal/meta"
	"github.com/taibuivan/polyglot/internal/platform/apperr"
	"github.com/taibuivan/polyglot/internal/platform/constants"
	"github.com/taibuivan/polyglot/internal/platform/validate"
	"github.com/taibuivan/polyglot/internal/termfilter"
	"github.com/taibuivan/polyglot/pkg/pagination"
)

// FormTokens issues and verifies the single-use tokens guarding override
// saves. Satisfied by the Redis-backed nonce service.
type FormTokens interface {
	Issue(ctx context.Context, scope string) (string, error)
	Verify(ctx context.Context, scope, token string) error
}

// Service implements post localization and delivery rules on top of the
// repository and metadata store.
type Service struct {
	repo     Repository
	meta     meta.Store
	scheme   *locale.Scheme
	registry *Registry
	hooks    *hook.Bus
	nonces   FormTokens
	counter  *termfilter.Counter
	logger   *slog.Logger
}

// NewService creates a content service with all collaborators injected.
func NewService(
	repo Repository,
	metaStore meta.Store,
	scheme *locale.Scheme,
	registry *Registry,
	hooks *hook.Bus,
	nonces FormTokens,
	counter *termfilter.Counter,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		meta:     metaStore,
		scheme:   scheme,
		registry: registry,
		hooks:    hooks,
		nonces:   nonces,
		counter:  counter,
		logger:   logger,
	}
}

// # Override Resolution

// overrideKey builds the metadata key "<prefix><locale key>".
func overrideKey(prefix string, key locale.Key) string {
	return prefix + string(key)
}

// normalizeKey substitutes the scheme default for an empty key, so callers
// that never resolved a locale get default-locale behavior.
func (service *Service) normalizeKey(key locale.Key) locale.Key {
	if key == "" {
		return service.scheme.DefaultKey()
	}
	return key
}

// Title resolves the display title of a post for a locale key.
//
// The default locale always reads the native column. Any other key consults
// the "_post_title_<key>" metadata entry and falls back to the native title
// when no override is stored.
func (service *Service) Title(ctx context.Context, post *Post, key locale.Key) (string, error) {
	key = service.normalizeKey(key)
	if service.scheme.IsDefault(key) {
		return post.Title, nil
	}

	override, err := service.meta.Get(ctx, post.ID, overrideKey(constants.MetaPrefixPostTitle, key))
	if err != nil {
		return "", err
	}
	if override == "" {
		return post.Title, nil
	}
	return override, nil
}

// DecoratedTitle substitutes the localized title into an already decorated
// title string (e.g. "Prefix: Native Title – Suffix").
//
// The native title is replaced in place so surrounding decoration survives.
// A native title that is empty after normalization cannot anchor a
// replacement; the override is concatenated onto the decorated string
// instead.
func (service *Service) DecoratedTitle(ctx context.Context, post *Post, decorated string, key locale.Key) (string, error) {
	localized, err := service.Title(ctx, post, key)
	if err != nil {
		return "", err
	}
	if localized == post.Title {
		return decorated, nil
	}

	native := strings.TrimSpace(post.Title)
	if native == "" {
		return decorated + localized, nil
	}
	return strings.Replace(decorated, native, localized, 1), nil
}

// RenderContent produces the final body of a post for a locale key.
//
// Rendering is two-phase: first the source text is chosen (override or
// native), then the content hook chain runs exactly once over the chosen
// text. Hooks never see both variants.
func (service *Service) RenderContent(ctx context.Context, post *Post, key locale.Key) (string, error) {
	key = service.normalizeKey(key)

	text := post.Content
	if !service.scheme.IsDefault(key) {
		override, err := service.meta.Get(ctx, post.ID, overrideKey(constants.MetaPrefixPostContent, key))
		if err != nil {
			return "", err
		}
		if override != "" {
			text = override
		}
	}

	return service.hooks.Apply(ctx, hook.PointRenderContent, text), nil
}

// Localize builds the read view of a post for a locale key.
func (service *Service) Localize(ctx context.Context, post *Post, key locale.Key) (*Localized, error) {
	key = service.normalizeKey(key)

	title, err := service.Title(ctx, post, key)
	if err != nil {
		return nil, err
	}
	title = service.hooks.Apply(ctx, hook.PointRenderTitle, title)

	body, err := service.RenderContent(ctx, post, key)
	if err != nil {
		return nil, err
	}

	view := &Localized{Post: *post, Locale: string(key)}
	view.Title = title
	view.Content = body
	return view, nil
}

// # Read Operations

// GetPost returns one published post localized for the key.
func (service *Service) GetPost(ctx context.Context, id string, key locale.Key) (*Localized, error) {
	post, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != StatusPublished {
		return nil, apperr.NotFound("Post")
	}
	return service.Localize(ctx, post, key)
}

// ListArchive returns a page of published posts of one type.
func (service *Service) ListArchive(ctx context.Context, postType string, key locale.Key, params pagination.Params) ([]*Localized, pagination.Meta, error) {
	if !service.registry.Has(postType) {
		return nil, pagination.Meta{}, apperr.NotFound(fmt.Sprintf("Post type %q", postType))
	}

	posts, total, err := service.repo.Archive(ctx, postType, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	views, err := service.localizeAll(ctx, posts, key)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return views, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Search returns a page of full-text matches across all post types.
func (service *Service) Search(ctx context.Context, query string, key locale.Key, params pagination.Params) ([]*Localized, pagination.Meta, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pagination.Meta{}, validate.RequiredError("q", "Search query is required")
	}

	posts, total, err := service.repo.Search(ctx, query, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	views, err := service.localizeAll(ctx, posts, key)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return views, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// AdjacentPost returns the next or previous published post relative to the
// given one, localized for the key. A nil view means the reference post sits
// at the boundary of its archive.
func (service *Service) AdjacentPost(ctx context.Context, id string, next bool, key locale.Key) (*Localized, error) {
	reference, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reference.PublishedAt == nil {
		return nil, apperr.Unprocessable("Post has no publication date")
	}

	neighbor, err := service.repo.Adjacent(ctx, reference, next)
	if err != nil {
		return nil, err
	}
	if neighbor == nil {
		return nil, nil
	}
	return service.Localize(ctx, neighbor, key)
}

// CountWithTerms counts published posts of the given types that carry ALL of
// the given term-taxonomy ids.
func (service *Service) CountWithTerms(ctx context.Context, postTypes []string, termIDs []int) (int, error) {
	for _, postType := range postTypes {
		if !service.registry.Has(postType) {
			return 0, apperr.NotFound(fmt.Sprintf("Post type %q", postType))
		}
	}
	return service.counter.CountPostsWithTerms(ctx, postTypes, termIDs)
}

// localizeAll maps a slice of posts through Localize.
func (service *Service) localizeAll(ctx context.Context, posts []*Post, key locale.Key) ([]*Localized, error) {
	views := make([]*Localized, 0, len(posts))
	for _, post := range posts {
		view, err := service.Localize(ctx, post, key)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// # Override Editing

// SaveOverridesInput carries one edit-form submission for a post.
//
// Titles and Contents map locale keys to override text. An empty string
// deletes the stored override for that key.
type SaveOverridesInput struct {
	PostID    string            `json:"-"`
	FormToken string            `json:"form_token"`
	Autosave  bool              `json:"autosave"`
	Titles    map[string]string `json:"titles"`
	Contents  map[string]string `json:"contents"`
}

// IssueFormToken issues the single-use token an edit form must submit back.
func (service *Service) IssueFormToken(ctx context.Context, postID string) (string, error) {
	if _, err := service.repo.FindByID(ctx, postID); err != nil {
		return "", err
	}
	return service.nonces.Issue(ctx, "post:"+postID)
}

// SaveOverrides persists per-locale title and content overrides for a post.
//
// Autosave submissions are acknowledged but never stored; the editing UI
// autosaves only the native fields. Keys not produced by the locale scheme
// are rejected rather than silently written.
func (service *Service) SaveOverrides(ctx context.Context, input SaveOverridesInput) error {
	if input.Autosave {
		return nil
	}

	if err := service.nonces.Verify(ctx, "post:"+input.PostID, input.FormToken); err != nil {
		return err
	}

	post, err := service.repo.FindByID(ctx, input.PostID)
	if err != nil {
		return err
	}

	// The default locale lives in the native columns only; valid override
	// keys are exactly the non-default combinations.
	valid := service.scheme.KeyToCombination(true)

	if err := service.validateKeys(valid, input.Titles, input.Contents); err != nil {
		return err
	}

	if err := service.saveField(ctx, post.ID, constants.MetaPrefixPostTitle, input.Titles); err != nil {
		return err
	}
	if err := service.saveField(ctx, post.ID, constants.MetaPrefixPostContent, input.Contents); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "post_overrides_saved",
		slog.String("post_id", post.ID),
		slog.Int("titles", len(input.Titles)),
		slog.Int("contents", len(input.Contents)),
	)
	return nil
}

// validateKeys checks every submitted locale key against the scheme.
func (service *Service) validateKeys(valid map[locale.Key][]string, fields ...map[string]string) error {
	v := &validate.Validator{}
	for _, field := range fields {
		for key := range field {
			if _, ok := valid[locale.Key(key)]; !ok {
				v.Custom("locale", true, fmt.Sprintf("Unknown locale key %q", key))
			}
		}
	}
	return v.Err()
}

// saveField upserts or deletes one override per submitted locale key.
func (service *Service) saveField(ctx context.Context, postID, prefix string, values map[string]string) error {
	for key, value := range values {
		metaKey := prefix + key
		if strings.TrimSpace(value) == "" {
			if err := service.meta.Delete(ctx, postID, metaKey); err != nil {
				return err
			}
			continue
		}
		if err := service.meta.Upsert(ctx, postID, metaKey, validate.CleanText(value)); err != nil {
			return err
		}
	}
	return nil
}
