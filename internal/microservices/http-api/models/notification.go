package models

import "time"

const (
	NotificationTypeComment = "comment"
)

type Notification struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID string    `gorm:"type:uuid;not null;index:idx_notifications_recipient_read" json:"recipient_id"`
	ActorID     string    `gorm:"type:uuid;not null" json:"actor_id"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	PostID      *int64    `json:"post_id,omitempty"`
	IsRead      bool      `gorm:"not null;default:false;index:idx_notifications_recipient_read" json:"is_read"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Associations
	Recipient *User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE;" json:"-"`
	Actor     *User `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE;" json:"actor,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Message renders the text shown to the recipient.
func (n *Notification) Message() string {
	actor := "Someone"
	if n.Actor != nil && n.Actor.Username != "" {
		actor = n.Actor.Username
	}

	switch n.Type {
	case NotificationTypeComment:
		return actor + " commented on your post."
	default:
		return actor + " did something."
	}
}

// PushSubscription is a browser push endpoint registered by a user.
type PushSubscription struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Endpoint  string    `gorm:"type:text;not null;uniqueIndex" json:"endpoint"`
	P256dh    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}
