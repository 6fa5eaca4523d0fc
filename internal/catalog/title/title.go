package title

import (
	"github.com/dkovalyov/revory/internal/catalog/category"
	"github.com/dkovalyov/revory/internal/catalog/genre"
)

// Title is a reviewable work: a film, a book, an album.
type Title struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Year        int    `json:"year"`
	Description string `json:"description"`

	// Rating is the average review score, recomputed at read time.
	// Nil when the title has no reviews yet.
	Rating *float64 `json:"rating"`

	Category *category.Category `json:"category"`
	Genres   []genre.Genre      `json:"genre"`
}

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	// Name matches a case-insensitive substring of the title name.
	Name string

	// Year matches exactly.
	Year *int

	// Category and Genre match a case-insensitive substring of the slug.
	Category string
	Genre    string
}
