package service

import (
	"context"
	"fmt"
	"time"

	"focushub/internal/logging"
	"focushub/internal/microservices/http-api/dto"
	"focushub/internal/microservices/http-api/models"
	"focushub/internal/microservices/http-api/repository"
)

type PostService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreatePost(ctx context.Context, authorID string, req dto.CreatePostDTO) (*dto.PostResponse, error)
	GetPost(ctx context.Context, postID int64) (*dto.PostResponse, error)
	ListPosts(ctx context.Context, q dto.ListPostsQuery) ([]dto.PostResponse, error)
	UpdatePost(ctx context.Context, postID int64, requesterID string, req dto.UpdatePostDTO) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, postID int64, requesterID string) error
}

type postService struct {
	store repository.Store
}

func NewPostService(store repository.Store) PostService {
	return &postService{store: store}
}

func (s *postService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.Categories().GetAll(ctx)
}

func (s *postService) CreatePost(ctx context.Context, authorID string, req dto.CreatePostDTO) (*dto.PostResponse, error) {
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:      authorID,
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		AllowsRatings: true,
	}
	if req.AllowsRatings != nil {
		post.AllowsRatings = *req.AllowsRatings
	}

	if err := s.store.Posts().Create(ctx, post); err != nil {
		return nil, err
	}

	logging.Logger.Info().Int64("post_id", post.ID).Str("author_id", authorID).Msg("post created")
	return s.GetPost(ctx, post.ID)
}

func (s *postService) GetPost(ctx context.Context, postID int64) (*dto.PostResponse, error) {
	summary, err := s.store.Posts().GetSummary(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return dto.FromSummaryToPostResponse(summary), nil
}

// ListPosts rejects filters that point at a missing author or category so
// that a typo is not mistaken for an empty feed.
func (s *postService) ListPosts(ctx context.Context, q dto.ListPostsQuery) ([]dto.PostResponse, error) {
	filter := repository.PostFilter{CategoryID: q.Category}

	if q.Author != "" {
		if _, err := s.store.Users().FindByID(ctx, q.Author); err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("load user: %w", err)
		}
		author := q.Author
		filter.AuthorID = &author
	}
	if q.Category != nil {
		if err := s.ensureCategory(ctx, *q.Category); err != nil {
			return nil, err
		}
	}
	if q.Sort == string(repository.SortRating) {
		filter.Sort = repository.SortRating
	}

	rows, err := s.store.Posts().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	posts := make([]dto.PostResponse, 0, len(rows))
	for i := range rows {
		posts = append(posts, *dto.FromSummaryToPostResponse(&rows[i]))
	}
	return posts, nil
}

// UpdatePost leaves existing ratings alone even when allows_ratings is
// switched off; it only stops new ones.
func (s *postService) UpdatePost(ctx context.Context, postID int64, requesterID string, req dto.UpdatePostDTO) (*dto.PostResponse, error) {
	post, err := s.ownedPost(ctx, postID, requesterID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil && *req.CategoryID != post.CategoryID {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		post.Title = req.Title
	}
	if req.Description != nil {
		post.Description = req.Description
	}
	if req.AllowsRatings != nil {
		post.AllowsRatings = *req.AllowsRatings
	}
	post.UpdatedAt = time.Now()

	if err := s.store.Posts().Update(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, post.ID)
}

func (s *postService) DeletePost(ctx context.Context, postID int64, requesterID string) error {
	if _, err := s.ownedPost(ctx, postID, requesterID); err != nil {
		return err
	}
	if err := s.store.Posts().Delete(ctx, postID); err != nil {
		if repository.IsNotFound(err) {
			return ErrPostNotFound
		}
		return err
	}
	logging.Logger.Info().Int64("post_id", postID).Msg("post deleted")
	return nil
}

func (s *postService) ownedPost(ctx context.Context, postID int64, requesterID string) (*models.Post, error) {
	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}
	if !post.IsAuthor(requesterID) {
		return nil, ErrNotPostAuthor
	}
	return post, nil
}

func (s *postService) ensureCategory(ctx context.Context, id int64) error {
	if _, err := s.store.Categories().GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("load category %d: %w", id, err)
	}
	return nil
}
