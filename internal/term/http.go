package term

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/polyglot/internal/platform/apperr"
	"github.com/taibuivan/polyglot/internal/platform/ctxutil"
	"github.com/taibuivan/polyglot/internal/platform/middleware"
	requestutil "github.com/taibuivan/polyglot/internal/platform/request"
	"github.com/taibuivan/polyglot/internal/platform/respond"
	"github.com/taibuivan/polyglot/internal/platform/sec"
)

// Handler exposes the term read API and the override editing endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates the term HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public, unauthenticated term routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listTerms)
	router.Get("/{id}", handler.getTerm)
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

// termID parses the {id} URL parameter.
func termID(request *http.Request) (int, error) {
	id, err := strconv.Atoi(requestutil.ID(request, "id"))
	if err != nil {
		return 0, apperr.ValidationError("Term id must be an integer")
	}
	return id, nil
}

// # Public Read API

func (handler *Handler) listTerms(writer http.ResponseWriter, request *http.Request) {
	taxonomy := request.URL.Query().Get("taxonomy")
	if taxonomy == "" {
		respond.Error(writer, request, apperr.ValidationError("taxonomy is required"))
		return
	}

	key := ctxutil.GetLocaleKey(request.Context())
	views, err := handler.service.ListByTaxonomy(request.Context(), taxonomy, key)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, views)
}

func (handler *Handler) getTerm(writer http.ResponseWriter, request *http.Request) {
	id, err := termID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	key := ctxutil.GetLocaleKey(request.Context())
	singular := request.URL.Query().Get("singular") == "1"

	view, err := handler.service.GetTerm(request.Context(), id, key, singular)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

// # Override Editing

func (handler *Handler) issueFormToken(writer http.ResponseWriter, request *http.Request) {
	id, err := termID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.service.IssueFormToken(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"form_token": token})
}

func (handler *Handler) saveOverrides(writer http.ResponseWriter, request *http.Request) {
	id, err := termID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := SaveOverridesInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.TermID = id

	if err := handler.service.SaveOverrides(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
