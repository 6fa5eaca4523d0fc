package comment

import "time"

// Comment is a reply to a review.
type Comment struct {
	ID       int64 `json:"id"`
	ReviewID int64 `json:"-"`

	// AuthorID is the account UUID; only the username is exposed.
	AuthorID   string `json:"-"`
	AuthorName string `json:"author"`

	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}
