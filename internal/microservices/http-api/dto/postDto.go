package dto

import (
	"time"

	"focushub/internal/microservices/http-api/repository"
)

type CreatePostDTO struct {
	CategoryID    int64   `json:"category_id" binding:"required,min=1"`
	Title         *string `json:"title" binding:"omitempty,max=200"`
	Description   *string `json:"description" binding:"omitempty,max=5000"`
	ImageURL      string  `json:"image_url" binding:"required,url"`
	AllowsRatings *bool   `json:"allows_ratings"`
}

// UpdatePostDTO changes only the supplied fields. The image is fixed once
// uploaded.
type UpdatePostDTO struct {
	CategoryID    *int64  `json:"category_id" binding:"omitempty,min=1"`
	Title         *string `json:"title" binding:"omitempty,max=200"`
	Description   *string `json:"description" binding:"omitempty,max=5000"`
	AllowsRatings *bool   `json:"allows_ratings"`
}

// ListPostsQuery binds the GET /api/posts query string.
type ListPostsQuery struct {
	Author   string `form:"author" binding:"omitempty,uuid"`
	Category *int64 `form:"category" binding:"omitempty,min=1"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest rating"`
}

type PostResponse struct {
	ID            int64     `json:"id"`
	AuthorID      string    `json:"author_id"`
	CategoryID    int64     `json:"category_id"`
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	ImageURL      string    `json:"image_url"`
	AllowsRatings bool      `json:"allows_ratings"`
	UploadedAt    time.Time `json:"uploaded_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	RatingsCount  int64     `json:"ratings_count"`
	AverageRating *float64  `json:"average_rating"`
}

func FromSummaryToPostResponse(s *repository.PostSummary) *PostResponse {
	resp := &PostResponse{
		ID:            s.ID,
		AuthorID:      s.AuthorID,
		CategoryID:    s.CategoryID,
		Title:         s.Title,
		Description:   s.Description,
		ImageURL:      s.ImageURL,
		AllowsRatings: s.AllowsRatings,
		UploadedAt:    s.UploadedAt,
		UpdatedAt:     s.UpdatedAt,
		RatingsCount:  s.RatingsCount,
	}
	if s.AverageRating != nil {
		avg := *s.AverageRating
		resp.AverageRating = &avg
	}
	return resp
}
