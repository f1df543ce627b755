package models

import "time"

// RatingAspects lists the scored aspects in their canonical order.
var RatingAspects = []string{"composition", "clarity_focus", "lighting", "creativity", "technical_adaptation"}

const (
	MinAspectScore = 1
	MaxAspectScore = 5
)

// Rating is one user's five-aspect score for a post. At most one row exists
// per (post, rater); it is only removed by cascade from its post or rater.
type Rating struct {
	ID                  int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PostID              int64     `json:"post" gorm:"not null;uniqueIndex:idx_ratings_post_rater"`
	RaterID             string    `json:"rater" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_post_rater;index"`
	Composition         int       `json:"composition" gorm:"not null;check:composition >= 1 AND composition <= 5"`
	ClarityFocus        int       `json:"clarity_focus" gorm:"not null;check:clarity_focus >= 1 AND clarity_focus <= 5"`
	Lighting            int       `json:"lighting" gorm:"not null;check:lighting >= 1 AND lighting <= 5"`
	Creativity          int       `json:"creativity" gorm:"not null;check:creativity >= 1 AND creativity <= 5"`
	TechnicalAdaptation int       `json:"technical_adaptation" gorm:"not null;check:technical_adaptation >= 1 AND technical_adaptation <= 5"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Rater *User `json:"-" gorm:"foreignKey:RaterID;constraint:OnDelete:CASCADE;"`
	Post  *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}

// EditableUntil is the last instant the rater may still change the scores.
func (r *Rating) EditableUntil(window time.Duration) time.Time {
	return r.CreatedAt.Add(window)
}

// CanBeEdited reports whether now falls inside the edit window. The window is
// anchored on CreatedAt, so edits never extend it.
func (r *Rating) CanBeEdited(now time.Time, window time.Duration) bool {
	return !now.After(r.EditableUntil(window))
}

// IsRater reports whether userID gave this rating.
func (r *Rating) IsRater(userID string) bool {
	return SameUser(r.RaterID, userID)
}
