package repository

import (
	"context"
	"fmt"
	"time"

	"focushub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type PostSort string

const (
	SortNewest PostSort = ""
	SortRating PostSort = "rating"
)

type PostFilter struct {
	AuthorID   *string
	CategoryID *int64
	Sort       PostSort
}

// PostSummary is a post row plus its rating counters.
type PostSummary struct {
	ID            int64
	AuthorID      string
	CategoryID    int64
	Title         *string
	Description   *string
	ImageURL      string
	AllowsRatings bool
	UploadedAt    time.Time
	UpdatedAt     time.Time
	RatingsCount  int64
	AverageRating *float64
}

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetSummary(ctx context.Context, id int64) (*PostSummary, error)
	List(ctx context.Context, filter PostFilter) ([]PostSummary, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postSummaryColumns = `posts.id, posts.author_id, posts.category_id, posts.title, posts.description,
	posts.image_url, posts.allows_ratings, posts.uploaded_at, posts.updated_at,
	COUNT(ratings.id) AS ratings_count,
	AVG((ratings.composition + ratings.clarity_focus + ratings.lighting + ratings.creativity + ratings.technical_adaptation) / 5.0) AS average_rating`

func (r *postRepository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select(postSummaryColumns).
		Joins("LEFT JOIN ratings ON ratings.post_id = posts.id").
		Group("posts.id")
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) GetSummary(ctx context.Context, id int64) (*PostSummary, error) {
	var rows []PostSummary
	if err := r.summaries(ctx).Where("posts.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// List returns posts newest first. With SortRating, posts are ordered by the
// mean of their five aspects (unrated posts last), then newest first.
func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]PostSummary, error) {
	q := r.summaries(ctx)

	if filter.AuthorID != nil {
		q = q.Where("posts.author_id = ?", *filter.AuthorID)
	}
	if filter.CategoryID != nil {
		q = q.Where("posts.category_id = ?", *filter.CategoryID)
	}

	if filter.Sort == SortRating {
		q = q.Order("average_rating DESC NULLS LAST")
	}
	q = q.Order("posts.uploaded_at DESC").Order("posts.id DESC")

	var rows []PostSummary
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return rows, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update saves the editable columns; author and upload time never change.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(post).
		Select("title", "description", "category_id", "allows_ratings", "updated_at").
		Updates(post).Error
	if err != nil {
		return fmt.Errorf("update post %d: %w", post.ID, err)
	}
	return nil
}

// Delete removes the post; ratings and comments go with it by cascade.
func (r *postRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete post %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
