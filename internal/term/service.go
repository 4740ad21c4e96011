package term

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/polyglot/internal/locale"
	"github.com/taibuivan/polyglot/internal/meta"
	"github.com/taibuivan/polyglot/internal/platform/apperr"
	"github.com/taibuivan/polyglot/internal/platform/constants"
	"github.com/taibuivan/polyglot/internal/platform/validate"
	"github.com/taibuivan/polyglot/pkg/pointer"
)

// FormTokens issues and verifies the single-use tokens guarding override
// saves. Satisfied by the Redis-backed nonce service.
type FormTokens interface {
	Issue(ctx context.Context, scope string) (string, error)
	Verify(ctx context.Context, scope, token string) error
}

// Service implements term localization rules on top of the repository and
// metadata store.
type Service struct {
	repo     Repository
	meta     meta.Store
	scheme   *locale.Scheme
	registry *Registry
	nonces   FormTokens
	logger   *slog.Logger
}

// NewService creates a term service with all collaborators injected.
func NewService(
	repo Repository,
	metaStore meta.Store,
	scheme *locale.Scheme,
	registry *Registry,
	nonces FormTokens,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		meta:     metaStore,
		scheme:   scheme,
		registry: registry,
		nonces:   nonces,
		logger:   logger,
	}
}

// entityID converts a term id to the string form the metadata store expects.
func entityID(termID int) string {
	return strconv.Itoa(termID)
}

func (service *Service) normalizeKey(key locale.Key) locale.Key {
	if key == "" {
		return service.scheme.DefaultKey()
	}
	return key
}

// # Name Resolution

// Name resolves the display name of a term for a locale key.
//
// Resolution order depends on whether the caller asked for the singular form
// and on the taxonomy's capabilities:
//
//   - default key, singular wanted: the fixed default-singular override,
//     falling back to the native name.
//   - default key otherwise: always the native name.
//   - non-default, singular wanted: "_singular_name_<key>", then
//     "_name_<key>", then native.
//   - non-default otherwise: "_name_<key>", then "_singular_name_<key>"
//     (when the taxonomy supports singulars), then native.
//
// Terms of unregistered taxonomies always resolve to the native name.
func (service *Service) Name(ctx context.Context, term *Term, key locale.Key, singular bool) (string, error) {
	caps, registered := service.registry.Capabilities(term.Taxonomy)
	if !registered {
		return term.Name, nil
	}
	key = service.normalizeKey(key)
	singular = singular && caps.Singular

	if service.scheme.IsDefault(key) {
		if singular && caps.DefaultSingular {
			return service.firstMeta(ctx, term.ID, term.Name, constants.MetaKeyDefaultSingular)
		}
		return term.Name, nil
	}

	nameKey := constants.MetaPrefixTermName + string(key)
	singularKey := constants.MetaPrefixSingular + string(key)

	if singular {
		return service.firstMeta(ctx, term.ID, term.Name, singularKey, nameKey)
	}
	if caps.Singular {
		return service.firstMeta(ctx, term.ID, term.Name, nameKey, singularKey)
	}
	return service.firstMeta(ctx, term.ID, term.Name, nameKey)
}

// Description resolves the description of a term for a locale key.
//
// Taxonomies without the Description capability, and the default locale,
// always read the native column.
func (service *Service) Description(ctx context.Context, term *Term, key locale.Key) (string, error) {
	native := pointer.Val(term.Description)

	caps, registered := service.registry.Capabilities(term.Taxonomy)
	if !registered || !caps.Description {
		return native, nil
	}
	key = service.normalizeKey(key)
	if service.scheme.IsDefault(key) {
		return native, nil
	}

	return service.firstMeta(ctx, term.ID, native, constants.MetaPrefixDescription+string(key))
}

// firstMeta returns the first non-empty metadata value among keys, falling
// back to native.
func (service *Service) firstMeta(ctx context.Context, termID int, native string, keys ...string) (string, error) {
	for _, key := range keys {
		value, err := service.meta.Get(ctx, entityID(termID), key)
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
	}
	return native, nil
}

// Localize builds the read view of a term for a locale key.
func (service *Service) Localize(ctx context.Context, term *Term, key locale.Key, singular bool) (*Localized, error) {
	key = service.normalizeKey(key)

	name, err := service.Name(ctx, term, key, singular)
	if err != nil {
		return nil, err
	}
	description, err := service.Description(ctx, term, key)
	if err != nil {
		return nil, err
	}

	view := &Localized{Term: *term, Locale: string(key)}
	view.Name = name
	view.Description = nil
	if description != "" {
		view.Description = pointer.To(description)
	}
	return view, nil
}

// # Read Operations

// GetTerm returns one term localized for the key.
func (service *Service) GetTerm(ctx context.Context, id int, key locale.Key, singular bool) (*Localized, error) {
	term, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return service.Localize(ctx, term, key, singular)
}

// ListByTaxonomy returns all terms of a registered taxonomy, localized.
func (service *Service) ListByTaxonomy(ctx context.Context, taxonomy string, key locale.Key) ([]*Localized, error) {
	if !service.registry.Has(taxonomy) {
		return nil, apperr.NotFound(fmt.Sprintf("Taxonomy %q", taxonomy))
	}

	terms, err := service.repo.ListByTaxonomy(ctx, taxonomy)
	if err != nil {
		return nil, err
	}

	views := make([]*Localized, 0, len(terms))
	for _, term := range terms {
		view, err := service.Localize(ctx, term, key, false)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// # Override Editing

// SaveOverridesInput carries one edit-form submission for a term.
//
// Names, Singulars, and Descriptions map locale keys to override text; an
// empty string deletes the stored override. DefaultSingular, when non-nil,
// sets or clears the fixed default-locale singular override.
type SaveOverridesInput struct {
	TermID          int               `json:"-"`
	FormToken       string            `json:"form_token"`
	Names           map[string]string `json:"names"`
	Singulars       map[string]string `json:"singulars"`
	Descriptions    map[string]string `json:"descriptions"`
	DefaultSingular *string           `json:"default_singular"`
}

// IssueFormToken issues the single-use token an edit form must submit back.
func (service *Service) IssueFormToken(ctx context.Context, termID int) (string, error) {
	if _, err := service.repo.FindByID(ctx, termID); err != nil {
		return "", err
	}
	return service.nonces.Issue(ctx, "term:"+entityID(termID))
}

// SaveOverrides persists per-locale name, singular, and description
// overrides for a term. Override kinds the taxonomy did not opt into are
// rejected.
func (service *Service) SaveOverrides(ctx context.Context, input SaveOverridesInput) error {
	if err := service.nonces.Verify(ctx, "term:"+entityID(input.TermID), input.FormToken); err != nil {
		return err
	}

	term, err := service.repo.FindByID(ctx, input.TermID)
	if err != nil {
		return err
	}

	caps, registered := service.registry.Capabilities(term.Taxonomy)
	if !registered {
		return apperr.Unprocessable(fmt.Sprintf("Taxonomy %q is not localized", term.Taxonomy))
	}

	v := &validate.Validator{}
	v.Custom("singulars", len(input.Singulars) > 0 && !caps.Singular,
		"Taxonomy does not support singular names")
	v.Custom("descriptions", len(input.Descriptions) > 0 && !caps.Description,
		"Taxonomy does not support description overrides")
	v.Custom("default_singular", input.DefaultSingular != nil && !caps.DefaultSingular,
		"Taxonomy does not support a default-locale singular name")

	valid := service.scheme.KeyToCombination(true)
	for _, field := range []map[string]string{input.Names, input.Singulars, input.Descriptions} {
		for key := range field {
			if _, ok := valid[locale.Key(key)]; !ok {
				v.Custom("locale", true, fmt.Sprintf("Unknown locale key %q", key))
			}
		}
	}
	if err := v.Err(); err != nil {
		return err
	}

	if err := service.saveField(ctx, term.ID, constants.MetaPrefixTermName, input.Names); err != nil {
		return err
	}
	if err := service.saveField(ctx, term.ID, constants.MetaPrefixSingular, input.Singulars); err != nil {
		return err
	}
	if err := service.saveField(ctx, term.ID, constants.MetaPrefixDescription, input.Descriptions); err != nil {
		return err
	}

	if input.DefaultSingular != nil {
		value := strings.TrimSpace(*input.DefaultSingular)
		if value == "" {
			err = service.meta.Delete(ctx, entityID(term.ID), constants.MetaKeyDefaultSingular)
		} else {
			err = service.meta.Upsert(ctx, entityID(term.ID), constants.MetaKeyDefaultSingular, validate.CleanText(value))
		}
		if err != nil {
			return err
		}
	}

	service.logger.InfoContext(ctx, "term_overrides_saved",
		slog.Int("term_id", term.ID),
		slog.String("taxonomy", term.Taxonomy),
	)
	return nil
}

// saveField upserts or deletes one override per submitted locale key.
func (service *Service) saveField(ctx context.Context, termID int, prefix string, values map[string]string) error {
	for key, value := range values {
		metaKey := prefix + key
		if strings.TrimSpace(value) == "" {
			if err := service.meta.Delete(ctx, entityID(termID), metaKey); err != nil {
				return err
			}
			continue
		}
		if err := service.meta.Upsert(ctx, entityID(termID), metaKey, validate.CleanText(value)); err != nil {
			return err
		}
	}
	return nil
}
