package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"focushub/internal/events"
	"focushub/internal/logging"
	"focushub/internal/metrics"
	"focushub/internal/microservices/http-api/dto"
	"focushub/internal/microservices/http-api/models"
	"focushub/internal/microservices/http-api/repository"
)

// EditWindow is how long after creation a rater may still change a rating.
const EditWindow = 24 * time.Hour

type RatingService interface {
	CreateRating(ctx context.Context, raterID string, req dto.CreateRatingDTO) (*models.Rating, error)
	UpdateRating(ctx context.Context, ratingID int64, requesterID string, patch dto.RatingPatch) (*models.Rating, error)
	// GetRatingFor returns (nil, nil) when the requester has not rated the post.
	GetRatingFor(ctx context.Context, postID int64, requesterID string) (*models.Rating, error)
	GetPostAverages(ctx context.Context, postID int64) (*dto.RatingStatistics, error)
}

type ratingService struct {
	store  repository.Store
	cache  StatsCache
	events events.Publisher
	now    func() time.Time
}

type RatingServiceOption func(*ratingService)

// WithClock replaces time.Now, mostly for tests around the edit window.
func WithClock(now func() time.Time) RatingServiceOption {
	return func(s *ratingService) { s.now = now }
}

func NewRatingService(store repository.Store, cache StatsCache, publisher events.Publisher, opts ...RatingServiceOption) RatingService {
	s := &ratingService{
		store:  store,
		cache:  cache,
		events: publisher,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewStatsCache(nil, 0)
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	return s
}

// CreateRating checks, in order: the post exists, it accepts ratings, the
// rater is not its author, the rater has not rated it yet, and all five
// scores are valid. The first failing check decides the error. A request
// that names no post at all is rejected before any of them.
func (s *ratingService) CreateRating(ctx context.Context, raterID string, req dto.CreateRatingDTO) (*models.Rating, error) {
	if req.Post == 0 {
		err := NewValidationError(map[string]string{"post": "this field is required"})
		recordRatingWrite("create", err)
		return nil, err
	}

	var rating *models.Rating

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		post, err := tx.Posts().GetByID(ctx, req.Post)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrPostNotFound
			}
			return fmt.Errorf("load post %d: %w", req.Post, err)
		}

		if !post.AllowsRatings {
			return ErrRatingsDisabled
		}
		if post.IsAuthor(raterID) {
			return ErrSelfRating
		}

		existing, err := tx.Ratings().GetByPostAndRater(ctx, post.ID, raterID)
		if err != nil && !repository.IsNotFound(err) {
			return fmt.Errorf("look up rating: %w", err)
		}
		if existing != nil {
			return ErrAlreadyRated
		}

		if err := validateStruct(req); err != nil {
			return err
		}

		now := s.now()
		rating = &models.Rating{
			PostID:              post.ID,
			RaterID:             raterID,
			Composition:         *req.Composition,
			ClarityFocus:        *req.ClarityFocus,
			Lighting:            *req.Lighting,
			Creativity:          *req.Creativity,
			TechnicalAdaptation: *req.TechnicalAdaptation,
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		// the unique index settles concurrent submissions
		if err := tx.Ratings().Create(ctx, rating); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyRated
			}
			return err
		}
		return nil
	})
	recordRatingWrite("create", err)
	if err != nil {
		return nil, err
	}

	logging.Logger.Info().
		Int64("rating_id", rating.ID).
		Int64("post_id", rating.PostID).
		Str("rater_id", raterID).
		Msg("rating created")

	s.refreshStats(ctx, rating.PostID)
	s.events.Publish(ctx, events.RatingCreated{
		RatingID:  rating.ID,
		PostID:    rating.PostID,
		RaterID:   rating.RaterID,
		CreatedAt: rating.CreatedAt,
	})
	return rating, nil
}

// UpdateRating overwrites the supplied aspects. Only the rater may do so, and
// only until CreatedAt+EditWindow; edits never move that deadline.
func (s *ratingService) UpdateRating(ctx context.Context, ratingID int64, requesterID string, patch dto.RatingPatch) (*models.Rating, error) {
	var rating *models.Rating

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		r, err := tx.Ratings().GetByIDForUpdate(ctx, ratingID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrRatingNotFound
			}
			return fmt.Errorf("load rating %d: %w", ratingID, err)
		}

		if !r.IsRater(requesterID) {
			return ErrNotRatingOwner
		}

		now := s.now()
		if !r.CanBeEdited(now, EditWindow) {
			return ErrEditWindowExpired
		}

		// an empty patch is valid and only touches updated_at
		if err := validateStruct(patch); err != nil {
			return err
		}

		patch.ApplyTo(r)
		r.UpdatedAt = now
		if err := tx.Ratings().UpdateScores(ctx, r); err != nil {
			return err
		}
		rating = r
		return nil
	})
	recordRatingWrite("update", err)
	if err != nil {
		return nil, err
	}

	s.refreshStats(ctx, rating.PostID)
	s.events.Publish(ctx, events.RatingUpdated{
		RatingID:  rating.ID,
		PostID:    rating.PostID,
		RaterID:   rating.RaterID,
		UpdatedAt: rating.UpdatedAt,
	})
	return rating, nil
}

func (s *ratingService) GetRatingFor(ctx context.Context, postID int64, requesterID string) (*models.Rating, error) {
	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}

	if post.IsAuthor(requesterID) {
		return nil, ErrAuthorRatingLookup
	}

	rating, err := s.store.Ratings().GetByPostAndRater(ctx, postID, requesterID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("look up rating: %w", err)
	}
	return rating, nil
}

// GetPostAverages is public. Served from a replica the counts may lag a
// little behind the latest writes; such reads are never cached.
func (s *ratingService) GetPostAverages(ctx context.Context, postID int64) (*dto.RatingStatistics, error) {
	if _, err := s.store.Posts().GetByID(ctx, postID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}

	if stats, ok := s.cache.Get(ctx, postID); ok {
		return stats, nil
	}

	agg, err := s.store.Ratings().AggregateByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	stats := computeStatistics(agg)
	if !s.store.Ratings().ReadsFromReplica() {
		s.cache.Add(ctx, postID, stats)
	}
	return stats, nil
}

// refreshStats caches the post's committed statistics after a rating write.
// The entry is dropped when they cannot be recomputed.
func (s *ratingService) refreshStats(ctx context.Context, postID int64) {
	if !s.cache.Enabled() {
		return
	}
	agg, err := s.store.Ratings().AggregateByPostPrimary(ctx, postID)
	if err != nil {
		logging.Logger.Warn().Err(err).Int64("post_id", postID).Msg("stats refresh failed")
		s.cache.Invalidate(ctx, postID)
		return
	}
	s.cache.Set(ctx, postID, computeStatistics(agg))
}

func recordRatingWrite(action string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		outcome = "invalid"
	case errors.Is(err, ErrConflict):
		outcome = "conflict"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden), errors.Is(err, ErrInvalidOperation):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	metrics.RatingsTotal.WithLabelValues(action, outcome).Inc()
}
