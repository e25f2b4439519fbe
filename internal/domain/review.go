package domain

import "time"

// Review score bounds.
const (
	MinScore = 1
	MaxScore = 10
)

// Review is a user's opinion of a title with a 1-10 score.
// A user may hold at most one review per title; the storage layer
// enforces the (author, title) uniqueness constraint.
type Review struct {
	ID       string    `json:"id"`
	TitleID  string    `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"` // username, denormalized for display
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// ValidScore reports whether score lies in the accepted range.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// Comment is a remark attached to a review.
type Comment struct {
	ID       string    `json:"id"`
	ReviewID string    `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"` // username, denormalized for display
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}
