package schema

// ProductTable represents the 'catalog.product' table
type ProductTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	Price     string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// Product is the schema definition for catalog.product
var Product = ProductTable{
	Table:     "catalog.product",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	Price:     "price",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t ProductTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.Price, t.Status, t.CreatedAt, t.UpdatedAt}
}
