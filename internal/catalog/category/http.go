package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalyov/revory/internal/platform/policy"
	requestutil "github.com/dkovalyov/revory/internal/platform/request"
	"github.com/dkovalyov/revory/internal/platform/respond"
	"github.com/dkovalyov/revory/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listCategories)
	router.Post("/", handler.createCategory)
	router.Delete("/{slug}", handler.deleteCategory)
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	categories, meta, err := handler.service.List(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, categories, meta)
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	requester := policy.FromClaims(requestutil.Claims(request))
	if err := policy.Check(requester, policy.ActionCreate, policy.ResourceCategory, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	requester := policy.FromClaims(requestutil.Claims(request))
	if err := policy.Check(requester, policy.ActionDelete, policy.ResourceCategory, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	slug := requestutil.Param(request, "slug")
	if err := handler.service.Delete(request.Context(), slug); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
