package schema

import "github.com/dkovalyov/revory/internal/platform/constants"

// RefTitleGenreTable represents the 'catalog.titlegenre' junction table
type RefTitleGenreTable struct {
	Table   string
	TitleID string
	GenreID string
}

// RefTitleGenre is the schema definition for catalog.titlegenre
var RefTitleGenre = RefTitleGenreTable{
	Table:   constants.SchemaCatalog + ".titlegenre",
	TitleID: "titleid",
	GenreID: "genreid",
}

func (t RefTitleGenreTable) Columns() []string {
	return []string{t.TitleID, t.GenreID}
}
