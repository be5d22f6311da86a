package schema

// CategoryClosureTable represents the 'catalog.categoryclosure' table
type CategoryClosureTable struct {
	Table        string
	AncestorID   string
	DescendantID string
	Depth        string
}

// CategoryClosure is the schema definition for catalog.categoryclosure
var CategoryClosure = CategoryClosureTable{
	Table:        "catalog.categoryclosure",
	AncestorID:   "ancestorid",
	DescendantID: "descendantid",
	Depth:        "depth",
}

func (t CategoryClosureTable) Columns() []string {
	return []string{t.AncestorID, t.DescendantID, t.Depth}
}
