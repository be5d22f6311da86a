/*
Package category implements the hierarchical category tree for the catalog.

A category is a node in a bounded-depth rooted forest. The tree is stored in
three redundant representations that are kept consistent inside a single
database transaction:

  - Adjacency: the parent pointer on each node (quick parent walk).
  - Materialised path: the pre-computed "/"-joined slug string (exact and
    prefix lookup, SEO redirects).
  - Closure table: (ancestor, descendant, depth) triples including self-rows
    (constant-time ancestor enumeration at any distance).

The service layer owns all writes; stores expose mutations but never
synthesise them.
*/
package category

import (
	"strings"
	"time"
)

// Structural limits for the tree.
const (
	// MaxDepth is the deepest allowed node depth. Roots are depth 0, so the
	// forest holds at most seven levels.
	MaxDepth = 6

	// PathMaxLength bounds the materialised path column.
	PathMaxLength = 1024

	// NameMaxLength bounds the display name in code points.
	NameMaxLength = 50

	// ImageURLMaxLength bounds the image URL column.
	ImageURLMaxLength = 1024

	// DeleteBatchSize caps the number of ids per bulk DELETE statement.
	DeleteBatchSize = 800
)

// # Domain Enums

// Status represents the merchandising visibility of a category.
type Status string

const (
	// StatusActive is visible on the storefront.
	StatusActive Status = "ACTIVE"

	// StatusReady is prepared but not yet published. Default on creation.
	StatusReady Status = "READY"

	// StatusDisabled is hidden everywhere except admin views.
	StatusDisabled Status = "DISABLED"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusReady, StatusDisabled:
		return true
	}
	return false
}

// # Core Entity

// Category is a node in the catalog forest.
type Category struct {
	ID        int64     `json:"id"`
	ParentID  *int64    `json:"parent_id,omitempty"` // nil = root
	Name      string    `json:"name"`
	Slug      string    `json:"slug"` // URL segment, immutable after creation
	Path      string    `json:"path"` // materialised absolute path, e.g. "/men/top"
	Depth     int       `json:"depth"`
	SortOrder int       `json:"sort_order"`
	Status    Status    `json:"status"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// NewRoot builds an unsaved root category.
func NewRoot(name, slug string, sortOrder int, status Status, imageURL *string) *Category {
	return &Category{
		Name:      name,
		Slug:      slug,
		Path:      "/" + slug,
		Depth:     0,
		SortOrder: sortOrder,
		Status:    status,
		ImageURL:  imageURL,
	}
}

// NewChild builds an unsaved category under the given parent.
func NewChild(name, slug string, parent *Category, sortOrder int, status Status, imageURL *string) *Category {
	parentID := parent.ID
	return &Category{
		ParentID:  &parentID,
		Name:      name,
		Slug:      slug,
		Path:      parent.Path + "/" + slug,
		Depth:     parent.Depth + 1,
		SortOrder: sortOrder,
		Status:    status,
		ImageURL:  imageURL,
	}
}

// # Attribute Mutations
//
// Nil inputs mean "leave unchanged"; the partial-update endpoint passes
// through exactly the fields the client supplied.

// ChangeName replaces the display name. Blank names are rejected.
func (c *Category) ChangeName(newName *string) error {
	if newName == nil {
		return nil
	}
	value := strings.TrimSpace(*newName)
	if value == "" {
		return ErrNameNotNull()
	}
	c.Name = value
	return nil
}

// ChangeImageURL replaces the image URL. An empty string clears the field.
func (c *Category) ChangeImageURL(newImageURL *string) error {
	if newImageURL == nil {
		return nil
	}
	value := strings.TrimSpace(*newImageURL)
	if value == "" {
		c.ImageURL = nil
		return nil
	}
	c.ImageURL = &value
	return nil
}

// ChangeSortOrder replaces the sibling ordering weight.
func (c *Category) ChangeSortOrder(newSortOrder *int) error {
	if newSortOrder == nil {
		return nil
	}
	if *newSortOrder < 0 {
		return ErrSortOrderGreaterOrEqualZero()
	}
	c.SortOrder = *newSortOrder
	return nil
}

// ChangeStatus replaces the visibility status.
func (c *Category) ChangeStatus(newStatus *Status) error {
	if newStatus == nil {
		return nil
	}
	if !newStatus.IsValid() {
		return ErrCategoryStatusNotAllowed(string(*newStatus))
	}
	c.Status = *newStatus
	return nil
}

// # Structural Mutations
//
// Used only by the move algorithm, after the service has completed cycle,
// uniqueness, and depth validation.

// Reparent reassigns the parent pointer. nil promotes the node to root.
func (c *Category) Reparent(newParent *Category) error {
	if newParent == nil {
		c.ParentID = nil
		return nil
	}
	if newParent.ID == c.ID {
		return ErrInvalidReparentSelf()
	}
	parentID := newParent.ID
	c.ParentID = &parentID
	return nil
}

// SetDepth rewrites the cached depth during subtree relocation.
func (c *Category) SetDepth(newDepth int) error {
	if newDepth < 0 {
		return ErrDepthGreaterOrEqualZero()
	}
	c.Depth = newDepth
	return nil
}

// SetPath rewrites the materialised path during subtree relocation.
// The caller is responsible for global path uniqueness.
func (c *Category) SetPath(newPath string) error {
	if strings.TrimSpace(newPath) == "" {
		return ErrPathNotNull()
	}
	if newPath[0] != '/' {
		newPath = "/" + newPath
	}
	if len(newPath) > PathMaxLength {
		return ErrPathLengthMaxOver()
	}
	c.Path = newPath
	return nil
}
