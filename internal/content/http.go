package content

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/polyglot/internal/platform/apperr"
	"github.com/taibuivan/polyglot/internal/platform/ctxutil"
	"github.com/taibuivan/polyglot/internal/platform/middleware"
	requestutil "github.com/taibuivan/polyglot/internal/platform/request"
	"github.com/taibuivan/polyglot/internal/platform/respond"
	"github.com/taibuivan/polyglot/internal/platform/sec"
	"github.com/taibuivan/polyglot/pkg/pagination"
	"github.com/taibuivan/polyglot/pkg/query"
)

// Handler exposes the post read API and the override editing endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates the content HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public, unauthenticated post routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listPosts)
	router.Get("/count", handler.countPosts)
	router.Get("/{id}", handler.getPost)
	router.Get("/{id}/adjacent", handler.getAdjacent)
	return router
}

// AdminRoutes returns the authenticated override editing routes.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleEditor))
	router.Get("/{id}/form-token", handler.issueFormToken)
	router.Put("/{id}/overrides", handler.saveOverrides)
	return router
}

// # Public Read API

func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	postType := request.URL.Query().Get("type")
	if postType == "" {
		postType = "post"
	}

	key := ctxutil.GetLocaleKey(request.Context())
	params := pagination.FromRequest(request)

	views, meta, err := handler.service.ListArchive(request.Context(), postType, key, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, views, meta)
}

func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	key := ctxutil.GetLocaleKey(request.Context())

	view, err := handler.service.GetPost(request.Context(), id, key)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) getAdjacent(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	key := ctxutil.GetLocaleKey(request.Context())

	direction := request.URL.Query().Get("dir")
	if direction != "next" && direction != "prev" {
		respond.Error(writer, request, apperr.ValidationError("dir must be 'next' or 'prev'"))
		return
	}

	view, err := handler.service.AdjacentPost(request.Context(), id, direction == "next", key)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

// SearchPosts handles GET /search?q=. Mounted at the API root by the server.
func (handler *Handler) SearchPosts(writer http.ResponseWriter, request *http.Request) {
	q := request.URL.Query().Get("q")
	key := ctxutil.GetLocaleKey(request.Context())
	params := pagination.FromRequest(request)

	views, meta, err := handler.service.Search(request.Context(), q, key, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, views, meta)
}

func (handler *Handler) countPosts(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()

	postTypes := query.StringSlice(values.Get("types"))
	if len(postTypes) == 0 {
		postTypes = []string{"post"}
	}

	termIDs := query.IntSlice(values.Get("terms"))

	total, err := handler.service.CountWithTerms(request.Context(), postTypes, termIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int{"total": total})
}

// # Override Editing

func (handler *Handler) issueFormToken(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	token, err := handler.service.IssueFormToken(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"form_token": token})
}

func (handler *Handler) saveOverrides(writer http.ResponseWriter, request *http.Request) {
	input := SaveOverridesInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.PostID = strings.TrimSpace(requestutil.ID(request, "id"))

	if err := handler.service.SaveOverrides(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
