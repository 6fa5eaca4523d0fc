package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalyov/revory/internal/platform/policy"
	requestutil "github.com/dkovalyov/revory/internal/platform/request"
	"github.com/dkovalyov/revory/internal/platform/respond"
	"github.com/dkovalyov/revory/pkg/convert"
	"github.com/dkovalyov/revory/pkg/pagination"
	"github.com/dkovalyov/revory/pkg/pointer"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTitles)
	router.Post("/", handler.createTitle)
	router.Get("/{titleID}", handler.getTitle)
	// PUT is accepted alongside PATCH; omitted fields keep their stored values.
	router.Patch("/{titleID}", handler.updateTitle)
	router.Put("/{titleID}", handler.updateTitle)
	router.Delete("/{titleID}", handler.deleteTitle)
}

func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := filterFromQuery(request)

	titles, meta, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, titles, meta)
}

func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	t, err := handler.service.Get(request.Context(), titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, t)
}

func (handler *Handler) createTitle(writer http.ResponseWriter, request *http.Request) {
	requester := policy.FromClaims(requestutil.Claims(request))
	if err := policy.Check(requester, policy.ActionCreate, policy.ResourceTitle, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	t, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, t)
}

func (handler *Handler) updateTitle(writer http.ResponseWriter, request *http.Request) {
	requester := policy.FromClaims(requestutil.Claims(request))
	if err := policy.Check(requester, policy.ActionUpdate, policy.ResourceTitle, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	t, err := handler.service.Update(request.Context(), titleID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, t)
}

func (handler *Handler) deleteTitle(writer http.ResponseWriter, request *http.Request) {
	requester := policy.FromClaims(requestutil.Claims(request))
	if err := policy.Check(requester, policy.ActionDelete, policy.ResourceTitle, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), titleID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// filterFromQuery reads the supported catalog filters off the query string.
func filterFromQuery(request *http.Request) Filter {
	values := request.URL.Query()

	filter := Filter{
		Name:     values.Get("name"),
		Category: values.Get("category"),
		Genre:    values.Get("genre"),
	}

	// Year zero never matches a stored title, so a malformed value is ignored.
	if year := convert.ToInt(values.Get("year")); year != 0 {
		filter.Year = pointer.To(year)
	}

	return filter
}
