package genre

// Genre is a many-to-many tag applied to titles (e.g. "Drama", "Sci-Fi").
type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
