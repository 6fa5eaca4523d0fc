package schema

import "github.com/dkovalyov/revory/internal/platform/constants"

// RefTitleTable represents the 'catalog.title' table
type RefTitleTable struct {
	Table       string
	ID          string
	Name        string
	Year        string
	Description string
	CategoryID  string
}

// RefTitle is the schema definition for catalog.title
var RefTitle = RefTitleTable{
	Table:       constants.SchemaCatalog + ".title",
	ID:          "id",
	Name:        "name",
	Year:        "year",
	Description: "description",
	CategoryID:  "categoryid",
}

func (t RefTitleTable) Columns() []string {
	return []string{t.ID, t.Name, t.Year, t.Description, t.CategoryID}
}
