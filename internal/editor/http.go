package editor

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/polyglot/internal/platform/request"
	"github.com/taibuivan/polyglot/internal/platform/respond"
)

// Handler exposes the authentication routes.
type Handler struct {
	service *Service
}

// NewHandler creates the editor HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the authentication routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/login", handler.login)
	return router
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	input := LoginInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
