package schema

import "github.com/dkovalyov/revory/internal/platform/constants"

// RefCommentTable represents the 'content.comment' table
type RefCommentTable struct {
	Table    string
	ID       string
	ReviewID string
	AuthorID string
	Text     string
	PubDate  string
}

// RefComment is the schema definition for content.comment
var RefComment = RefCommentTable{
	Table:    constants.SchemaContent + ".comment",
	ID:       "id",
	ReviewID: "reviewid",
	AuthorID: "authorid",
	Text:     "text",
	PubDate:  "pubdate",
}

func (t RefCommentTable) Columns() []string {
	return []string{t.ID, t.ReviewID, t.AuthorID, t.Text, t.PubDate}
}
