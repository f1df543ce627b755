package repository

import (
	"context"
	"fmt"

	"focushub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingAggregate holds exact integer sums so callers divide only once.
type RatingAggregate struct {
	Total               int64
	Composition         int64
	ClarityFocus        int64
	Lighting            int64
	Creativity          int64
	TechnicalAdaptation int64
}

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	UpdateScores(ctx context.Context, rating *models.Rating) error
	GetByID(ctx context.Context, id int64) (*models.Rating, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Rating, error)
	GetByPostAndRater(ctx context.Context, postID int64, raterID string) (*models.Rating, error)
	// AggregateByPost reads from the replica when one is configured.
	AggregateByPost(ctx context.Context, postID int64) (*RatingAggregate, error)
	// AggregateByPostPrimary always reads committed data from the primary.
	AggregateByPostPrimary(ctx context.Context, postID int64) (*RatingAggregate, error)
	// ReadsFromReplica reports whether AggregateByPost may lag behind writes.
	ReadsFromReplica() bool
}

type ratingRepository struct {
	db     *gorm.DB
	reader *gorm.DB
}

func NewRatingRepository(db, reader *gorm.DB) RatingRepository {
	if reader == nil {
		reader = db
	}
	return &ratingRepository{db: db, reader: reader}
}

// Create inserts a new rating. A second rating for the same (post, rater)
// pair fails with ErrDuplicate, even when two requests race.
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

// UpdateScores writes the five aspect columns and updated_at only.
func (r *ratingRepository) UpdateScores(ctx context.Context, rating *models.Rating) error {
	err := r.db.WithContext(ctx).
		Model(rating).
		Select("composition", "clarity_focus", "lighting", "creativity", "technical_adaptation", "updated_at").
		Updates(rating).Error
	if err != nil {
		return fmt.Errorf("update rating %d: %w", rating.ID, err)
	}
	return nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *ratingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rating, id).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByPostAndRater retrieves a user's rating for a specific post
func (r *ratingRepository) GetByPostAndRater(ctx context.Context, postID int64, raterID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND rater_id = ?", postID, raterID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// AggregateByPost sums every aspect over the post's ratings.
func (r *ratingRepository) AggregateByPost(ctx context.Context, postID int64) (*RatingAggregate, error) {
	return aggregateByPost(ctx, r.reader, postID)
}

func (r *ratingRepository) AggregateByPostPrimary(ctx context.Context, postID int64) (*RatingAggregate, error) {
	return aggregateByPost(ctx, r.db, postID)
}

func (r *ratingRepository) ReadsFromReplica() bool {
	return r.reader != r.db
}

func aggregateByPost(ctx context.Context, db *gorm.DB, postID int64) (*RatingAggregate, error) {
	var agg RatingAggregate
	err := db.WithContext(ctx).
		Model(&models.Rating{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(composition), 0) AS composition,
			COALESCE(SUM(clarity_focus), 0) AS clarity_focus,
			COALESCE(SUM(lighting), 0) AS lighting,
			COALESCE(SUM(creativity), 0) AS creativity,
			COALESCE(SUM(technical_adaptation), 0) AS technical_adaptation`).
		Where("post_id = ?", postID).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings for post %d: %w", postID, err)
	}
	return &agg, nil
}
