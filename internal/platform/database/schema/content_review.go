package schema

import "github.com/dkovalyov/revory/internal/platform/constants"

// RefReviewTable represents the 'content.review' table
type RefReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string
}

// RefReview is the schema definition for content.review
var RefReview = RefReviewTable{
	Table:    constants.SchemaContent + ".review",
	ID:       "id",
	TitleID:  "titleid",
	AuthorID: "authorid",
	Text:     "text",
	Score:    "score",
	PubDate:  "pubdate",
}

func (t RefReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Text, t.Score, t.PubDate}
}
