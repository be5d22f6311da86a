package schema

// CategoryTable represents the 'catalog.category' table
type CategoryTable struct {
	Table     string
	ID        string
	ParentID  string
	Name      string
	Slug      string
	Path      string
	Depth     string
	SortOrder string
	Status    string
	ImageURL  string
	CreatedAt string
	UpdatedAt string
}

// Category is the schema definition for catalog.category
var Category = CategoryTable{
	Table:     "catalog.category",
	ID:        "id",
	ParentID:  "parentid",
	Name:      "name",
	Slug:      "slug",
	Path:      "path",
	Depth:     "depth",
	SortOrder: "sortorder",
	Status:    "status",
	ImageURL:  "imageurl",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t CategoryTable) Columns() []string {
	return []string{t.ID, t.ParentID, t.Name, t.Slug, t.Path, t.Depth, t.SortOrder, t.Status, t.ImageURL, t.CreatedAt, t.UpdatedAt}
}
