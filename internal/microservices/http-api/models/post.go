package models

import "time"

type Post struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID      string    `json:"author_id" gorm:"type:uuid;not null;index"`
	CategoryID    int64     `json:"category_id" gorm:"not null;index"`
	Title         *string   `json:"title,omitempty" gorm:"size:200"`
	Description   *string   `json:"description,omitempty" gorm:"type:text"`
	ImageURL      string    `json:"image_url" gorm:"not null"`
	AllowsRatings bool      `json:"allows_ratings" gorm:"not null;default:true"`
	UploadedAt    time.Time `json:"uploaded_at" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author   *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;"`
}

func (Post) TableName() string {
	return "posts"
}

// IsAuthor reports whether userID owns the post.
func (p *Post) IsAuthor(userID string) bool {
	return SameUser(p.AuthorID, userID)
}
