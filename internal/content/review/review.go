package review

import "time"

// Review is a single user's scored opinion on a title. Each user may
// publish at most one review per title.
type Review struct {
	ID      int64 `json:"id"`
	TitleID int64 `json:"-"`

	// AuthorID is the account UUID; only the username is exposed.
	AuthorID   string `json:"-"`
	AuthorName string `json:"author"`

	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}
