package schema

// ProductCategoryTable represents the 'catalog.productcategory' junction table
type ProductCategoryTable struct {
	Table      string
	ProductID  string
	CategoryID string
}

// ProductCategory is the schema definition for catalog.productcategory
var ProductCategory = ProductCategoryTable{
	Table:      "catalog.productcategory",
	ProductID:  "productid",
	CategoryID: "categoryid",
}

func (t ProductCategoryTable) Columns() []string {
	return []string{t.ProductID, t.CategoryID}
}
