package schema

import "github.com/dkovalyov/revory/internal/platform/constants"

// RefCategoryTable represents the 'catalog.category' table
type RefCategoryTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// RefCategory is the schema definition for catalog.category
var RefCategory = RefCategoryTable{
	Table: constants.SchemaCatalog + ".category",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

func (t RefCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
