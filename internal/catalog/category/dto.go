package category

// # Requests

// CreateInput carries the fields for a new category. Optional fields are
// pointers; nil selects the documented default.
type CreateInput struct {
	ParentID  *int64  `json:"parent_id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	SortOrder *int    `json:"sort_order"`
	Status    *Status `json:"status"`
	ImageURL  *string `json:"image_url"`
}

// UpdateInput carries a partial attribute update. Nil fields are ignored.
type UpdateInput struct {
	Name      *string `json:"name"`
	ImageURL  *string `json:"image_url"`
	SortOrder *int    `json:"sort_order"`
	Status    *Status `json:"status"`
}

// MoveInput carries a reparenting request. A nil NewParentID promotes the
// node to root.
type MoveInput struct {
	NewParentID *int64 `json:"new_parent_id"`
}

// # Responses

// CreateResult echoes the persisted state of a freshly created category.
type CreateResult struct {
	ID        int64  `json:"id"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Path      string `json:"path"`
	Depth     int    `json:"depth"`
	SortOrder int    `json:"sort_order"`
	Status    Status `json:"status"`
}

// BreadcrumbNode is one hop of the root-to-parent navigation trail.
type BreadcrumbNode struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// MoveResult reports the node's position after a completed move.
type MoveResult struct {
	ID          int64            `json:"id"`
	NewParentID *int64           `json:"new_parent_id,omitempty"`
	Path        string           `json:"path"`
	Depth       int              `json:"depth"`
	Breadcrumb  []BreadcrumbNode `json:"breadcrumb"`
}

// DeleteResult reports the number of category rows removed by a subtree delete.
type DeleteResult struct {
	DeletedCount int `json:"deleted_count"`
}

// Node is the common read-projection shape for a category.
type Node struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Path     string  `json:"path"`
	Depth    int     `json:"depth"`
	ImageURL *string `json:"image_url,omitempty"`
}

// DetailResult is the full detail projection: the target node, its breadcrumb,
// and the optional include sections.
type DetailResult struct {
	Category   Node             `json:"category"`
	Breadcrumb []BreadcrumbNode `json:"breadcrumb"`
	Children   []Node           `json:"children"`
	Siblings   []Node           `json:"siblings"`
	Roots      []Node           `json:"roots"`
}

// MegaMenuNode is a root or child entry in the two-level navigation menu.
// ChildCount is only populated for roots; the menu does not badge level two.
type MegaMenuNode struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	ImageURL   *string `json:"image_url,omitempty"`
	ChildCount *int    `json:"child_count,omitempty"`
}

// MegaMenuSelectedRoot is the root whose children fill the menu's second level.
type MegaMenuSelectedRoot struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ImageURL *string `json:"image_url,omitempty"`
}

// MegaMenuResult is the complete mega-menu projection.
type MegaMenuResult struct {
	Roots        []MegaMenuNode        `json:"roots"`
	SelectedRoot *MegaMenuSelectedRoot `json:"selected_root,omitempty"`
	Children     []MegaMenuNode        `json:"children"`
}

// toNode maps an entity to the read-projection shape.
func toNode(category *Category) Node {
	return Node{
		ID:       category.ID,
		Name:     category.Name,
		Slug:     category.Slug,
		Path:     category.Path,
		Depth:    category.Depth,
		ImageURL: category.ImageURL,
	}
}

// toBreadcrumb maps an ancestor list to breadcrumb hops.
func toBreadcrumb(ancestors []*Category) []BreadcrumbNode {
	breadcrumb := make([]BreadcrumbNode, 0, len(ancestors))
	for _, ancestor := range ancestors {
		breadcrumb = append(breadcrumb, BreadcrumbNode{
			ID:   ancestor.ID,
			Name: ancestor.Name,
			Slug: ancestor.Slug,
		})
	}
	return breadcrumb
}
