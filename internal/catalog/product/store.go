package product

import (
	"context"

	"github.com/bookdolphin/catalog/pkg/pagination"
)

// ProductStore defines the persistence contract for product rows and their
// category attachments.
type ProductStore interface {

	/*
		FindByID returns the product with the given id, or (nil, nil) if absent.
	*/
	FindByID(ctx context.Context, id int64) (*Product, error)

	/*
		ListByCategory returns the page of products attached to the category.

		Parameters:
		  - ctx: context.Context
		  - categoryID: int64
		  - includeDescendants: bool (when true, the whole subtree is searched
		    through the closure table)
		  - activeOnly: bool (storefront views hide non-ACTIVE rows)
		  - params: pagination.Params

		Returns:
		  - []*Product: The page, ordered by name
		  - int: The total matching count for pagination metadata
		  - error: Database retrieval failures
	*/
	ListByCategory(ctx context.Context, categoryID int64, includeDescendants, activeOnly bool, params pagination.Params) ([]*Product, int, error)

	/*
		Save persists a new product and assigns its id.
	*/
	Save(ctx context.Context, product *Product) error

	/*
		CountInCategories returns the number of junction rows referencing any
		of the given categories. Used as the category delete guard.
	*/
	CountInCategories(ctx context.Context, categoryIDs []int64) (int64, error)

	/*
		ReplaceCategories rewrites the product's category attachments to
		exactly the given set.
	*/
	ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error
}

// TxManager runs a unit of work against a transaction-bound [ProductStore],
// so a product row and its category attachments commit or roll back together.
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context, store ProductStore) error) error
}
