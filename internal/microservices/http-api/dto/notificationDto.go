package dto

import (
	"time"

	"focushub/internal/microservices/http-api/models"
)

type NotificationResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	ActorID   string    `json:"actor_id"`
	PostID    *int64    `json:"post_id,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelToNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		ActorID:   n.ActorID,
		PostID:    n.PostID,
		Message:   n.Message(),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// PushSubscriptionDTO mirrors the browser PushSubscription JSON.
type PushSubscriptionDTO struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}
