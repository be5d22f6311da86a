package category

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookdolphin/catalog/internal/platform/middleware"
	requestutil "github.com/bookdolphin/catalog/internal/platform/request"
	"github.com/bookdolphin/catalog/internal/platform/respond"
	"github.com/bookdolphin/catalog/internal/platform/sec"
	"github.com/bookdolphin/catalog/internal/platform/validate"
	"github.com/bookdolphin/catalog/pkg/pointer"
	"github.com/bookdolphin/catalog/pkg/query"
)

// # HTTP Transport

// Handler exposes the category tree over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new category [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the category endpoints.
//
// Reads are public. Mutations require an editor; hard deletion requires an
// admin because it is unrecoverable.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.GetMegaMenu)
	router.Get("/{categoryID}", handler.GetDetail)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(sec.RoleEditor))
		protected.Post("/", handler.Create)
		protected.Patch("/{categoryID}", handler.UpdateBasic)
		protected.Patch("/{categoryID}/move", handler.Move)
	})

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(sec.RoleAdmin))
		protected.Delete("/{categoryID}", handler.HardDelete)
	})

	return router
}

/*
Create handles POST /categories.
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.ParentID != nil && *input.ParentID <= 0 {
		respond.Error(writer, request, validate.RequiredError("parent_id", "Must be a positive integer identifier"))
		return
	}

	result, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

/*
GetMegaMenu handles GET /categories.

Query parameters:
  - root_id: optional selected root for the second menu level
  - active_only: "false" widens the view to all statuses (operators only)
*/
func (handler *Handler) GetMegaMenu(writer http.ResponseWriter, request *http.Request) {
	var rootID *int64
	if raw := request.URL.Query().Get("root_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respond.Error(writer, request, validate.RequiredError("root_id", "Must be a positive integer identifier"))
			return
		}
		rootID = pointer.To(id)
	}

	result, err := handler.service.GetMegaMenu(request.Context(), rootID, handler.activeOnly(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
GetDetail handles GET /categories/{categoryID}.

Query parameters:
  - include: comma-separated sections ("children", "siblings", "roots");
    defaults to children. The breadcrumb is always included.
  - active_only: "false" widens the view to all statuses (operators only)
*/
func (handler *Handler) GetDetail(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID64(request, "categoryID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	include := query.StringSlice(request.URL.Query().Get("include"))
	if include == nil {
		include = []string{IncludeChildren}
	}

	result, err := handler.service.GetDetail(request.Context(), id, include, handler.activeOnly(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
UpdateBasic handles PATCH /categories/{categoryID}.
*/
func (handler *Handler) UpdateBasic(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID64(request, "categoryID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateBasic(request.Context(), id, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Move handles PATCH /categories/{categoryID}/move.
*/
func (handler *Handler) Move(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID64(request, "categoryID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input MoveInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.NewParentID != nil && *input.NewParentID <= 0 {
		respond.Error(writer, request, validate.RequiredError("new_parent_id", "Must be a positive integer identifier"))
		return
	}

	result, err := handler.service.Move(request.Context(), id, input.NewParentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
HardDelete handles DELETE /categories/{categoryID}.
*/
func (handler *Handler) HardDelete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID64(request, "categoryID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.service.HardDeleteSubtree(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, DeleteResult{DeletedCount: deleted})
}

// activeOnly resolves the status filter for read endpoints. Anonymous
// requests always see ACTIVE rows only; authenticated operators may widen
// the view with active_only=false.
func (handler *Handler) activeOnly(request *http.Request) bool {
	if requestutil.Admin(request) == nil {
		return true
	}
	return request.URL.Query().Get("active_only") != "false"
}
