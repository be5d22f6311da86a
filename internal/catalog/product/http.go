package product

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookdolphin/catalog/internal/platform/middleware"
	requestutil "github.com/bookdolphin/catalog/internal/platform/request"
	"github.com/bookdolphin/catalog/internal/platform/respond"
	"github.com/bookdolphin/catalog/internal/platform/sec"
	"github.com/bookdolphin/catalog/internal/platform/validate"
	"github.com/bookdolphin/catalog/pkg/convert"
	"github.com/bookdolphin/catalog/pkg/pagination"
)

// Handler exposes product listings over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new product [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the product endpoints. Reads are public; creation requires
// an editor.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.ListByCategory)
	router.Get("/{productID}", handler.GetByID)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(sec.RoleEditor))
		protected.Post("/", handler.Create)
	})

	return router
}

/*
Create handles POST /products.
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

/*
GetByID handles GET /products/{productID}.
*/
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID64(request, "productID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
ListByCategory handles GET /products.

Query parameters:
  - category_id: required category filter
  - descendants: "true" widens the filter to the category's whole subtree
  - active_only: "false" widens the view to all statuses (operators only)
  - page, limit: pagination
*/
func (handler *Handler) ListByCategory(writer http.ResponseWriter, request *http.Request) {
	raw := request.URL.Query().Get("category_id")
	categoryID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || categoryID <= 0 {
		respond.Error(writer, request, validate.RequiredError("category_id", "Must be a positive integer identifier"))
		return
	}

	includeDescendants := convert.ToBool(request.URL.Query().Get("descendants"))

	activeOnly := true
	if requestutil.Admin(request) != nil {
		activeOnly = request.URL.Query().Get("active_only") != "false"
	}

	params := pagination.FromRequest(request)
	products, total, err := handler.service.ListByCategory(request.Context(), categoryID, includeDescendants, activeOnly, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total))
}
