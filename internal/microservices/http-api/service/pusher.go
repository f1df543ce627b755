package service

import (
	"context"

	"focushub/internal/logging"
	"focushub/internal/microservices/http-api/models"
)

// PushMessage is the payload handed to a push transport.
type PushMessage struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	PostID *int64 `json:"post_id,omitempty"`
}

// Pusher delivers a message to one browser subscription.
type Pusher interface {
	Push(ctx context.Context, sub models.PushSubscription, msg PushMessage) error
}

// LogPusher records what would have been delivered. It is the default until
// a web-push transport is configured.
type LogPusher struct{}

func (LogPusher) Push(ctx context.Context, sub models.PushSubscription, msg PushMessage) error {
	logging.Logger.Debug().
		Str("user_id", sub.UserID).
		Str("endpoint", sub.Endpoint).
		Str("body", msg.Body).
		Msg("push message")
	return nil
}
