// Package product implements the catalog product listing that hangs off the
// category tree. Products attach to categories through a junction table and
// are discovered either directly or through a category's whole subtree via
// the closure table.
package product

import (
	"net/http"
	"time"

	"github.com/bookdolphin/catalog/internal/platform/apperr"
)

// Status represents the merchandising state of a product.
type Status string

const (
	// StatusActive is purchasable on the storefront.
	StatusActive Status = "ACTIVE"

	// StatusDraft is being prepared by the back office.
	StatusDraft Status = "DRAFT"

	// StatusArchived is retired and hidden everywhere except admin views.
	StatusArchived Status = "ARCHIVED"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// Product is a sellable catalog entry. Price is stored in minor currency
// units to keep arithmetic exact.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Price     int64     `json:"price"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrProductNotFound signals that the target product does not exist.
func ErrProductNotFound(id int64) *apperr.AppError {
	return apperr.New("PRODUCT_NOT_FOUND", http.StatusNotFound,
		"product: product not found: %d", id)
}
