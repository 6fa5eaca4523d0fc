package schema

import "github.com/dkovalyov/revory/internal/platform/constants"

// RefGenreTable represents the 'catalog.genre' table
type RefGenreTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// RefGenre is the schema definition for catalog.genre
var RefGenre = RefGenreTable{
	Table: constants.SchemaCatalog + ".genre",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

func (t RefGenreTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
