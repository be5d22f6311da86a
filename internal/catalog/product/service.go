package product

import (
	"context"
	"log/slog"

	"github.com/bookdolphin/catalog/internal/platform/validate"
	"github.com/bookdolphin/catalog/pkg/pagination"
	"github.com/bookdolphin/catalog/pkg/pointer"
	"github.com/bookdolphin/catalog/pkg/slug"
)

// CreateInput carries the fields for a new product.
type CreateInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Price       int64   `json:"price"`
	Status      *Status `json:"status"`
	CategoryIDs []int64 `json:"category_ids"`
}

// Service exposes the product listing use cases.
type Service struct {
	store     ProductStore
	txManager TxManager
	logger    *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store ProductStore, txManager TxManager, logger *slog.Logger) *Service {
	return &Service{store: store, txManager: txManager, logger: logger}
}

/*
Create persists a new product and attaches it to the given categories.

Parameters:
  - ctx: context.Context
  - input: CreateInput (name, raw slug, price in minor units, optional status)

Returns:
  - *Product: The persisted product
  - error: Validation failures, slug conflicts, or infrastructure failures
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, 200)
	validator.Required("slug", input.Slug).MaxLen("slug", input.Slug, 200)
	validator.Custom("price", input.Price < 0, "Must not be negative")
	if input.Status != nil {
		validator.Custom("status", !input.Status.IsValid(), "Must be one of: ACTIVE, DRAFT, ARCHIVED")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	canonicalSlug := slug.Normalize(input.Slug)
	if canonicalSlug == "" {
		return nil, validate.RequiredError("slug", "Must contain usable characters")
	}

	created := &Product{
		Name:   input.Name,
		Slug:   canonicalSlug,
		Price:  input.Price,
		Status: pointer.Fallback(input.Status, StatusDraft),
	}

	// One transaction: a failed attachment (say, a dangling category id
	// hitting the junction FK) must not leave an orphaned product row.
	err := service.txManager.InTx(ctx, func(ctx context.Context, store ProductStore) error {
		if err := store.Save(ctx, created); err != nil {
			return err
		}
		if len(input.CategoryIDs) > 0 {
			return store.ReplaceCategories(ctx, created.ID, input.CategoryIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("product_created",
		slog.Int64("product_id", created.ID),
		slog.String("slug", created.Slug),
	)

	return created, nil
}

/*
GetByID returns a single product.

Returns:
  - *Product: The product
  - error: PRODUCT_NOT_FOUND, or database retrieval failures
*/
func (service *Service) GetByID(ctx context.Context, id int64) (*Product, error) {
	product, err := service.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound(id)
	}
	return product, nil
}

/*
ListByCategory returns the page of products attached to a category.

Description: An unknown category yields an empty page rather than an error;
the category detail endpoint is the authority on category existence.

Parameters:
  - ctx: context.Context
  - categoryID: int64
  - includeDescendants: bool (search the whole subtree via the closure table)
  - activeOnly: bool
  - params: pagination.Params

Returns:
  - []*Product: The page, ordered by name
  - int: The total matching count
  - error: Database retrieval failures
*/
func (service *Service) ListByCategory(ctx context.Context, categoryID int64, includeDescendants, activeOnly bool, params pagination.Params) ([]*Product, int, error) {
	return service.store.ListByCategory(ctx, categoryID, includeDescendants, activeOnly, params)
}
