// Package events carries domain events from services to their subscribers
// after the originating transaction has committed.
package events

import "time"

const (
	RatingCreatedName  = "rating.created"
	RatingUpdatedName  = "rating.updated"
	CommentCreatedName = "comment.created"
)

type Event interface {
	Name() string
}

type RatingCreated struct {
	RatingID  int64
	PostID    int64
	RaterID   string
	CreatedAt time.Time
}

func (RatingCreated) Name() string { return RatingCreatedName }

type RatingUpdated struct {
	RatingID  int64
	PostID    int64
	RaterID   string
	UpdatedAt time.Time
}

func (RatingUpdated) Name() string { return RatingUpdatedName }

// CommentCreated is emitted once per new comment. PostAuthorID is the
// notification recipient.
type CommentCreated struct {
	CommentID    int64
	PostID       int64
	AuthorID     string
	PostAuthorID string
	CreatedAt    time.Time
}

func (CommentCreated) Name() string { return CommentCreatedName }
