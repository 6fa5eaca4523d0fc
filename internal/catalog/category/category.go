package category

// Category is a top-level classification for titles (e.g. "Movies", "Books").
// A title belongs to at most one category.
type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
