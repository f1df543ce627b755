package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"focushub/internal/events"
	"focushub/internal/logging"
	"focushub/internal/microservices/http-api/dto"
	"focushub/internal/microservices/http-api/models"
	"focushub/internal/microservices/http-api/repository"
)

const MaxCommentLength = 5000

type CommentService interface {
	CreateComment(ctx context.Context, postID int64, authorID, content string) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, postID int64) ([]dto.CommentResponse, error)
	UpdateComment(ctx context.Context, postID, commentID int64, requesterID, content string) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, postID, commentID int64, requesterID string) error
}

type commentService struct {
	store  repository.Store
	events events.Publisher
}

func NewCommentService(store repository.Store, publisher events.Publisher) CommentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &commentService{store: store, events: publisher}
}

// CreateComment stores the comment and then announces it, so the post author
// can be notified.
func (s *commentService) CreateComment(ctx context.Context, postID int64, authorID, content string) (*dto.CommentResponse, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	content, err = normalizeContent(content)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.CommentCreated{
		CommentID:    comment.ID,
		PostID:       post.ID,
		AuthorID:     authorID,
		PostAuthorID: post.AuthorID,
		CreatedAt:    comment.CreatedAt,
	})

	// Reload with author data; the row is already committed
	created, err := s.store.Comments().GetByID(ctx, comment.ID)
	if err != nil {
		logging.Logger.Warn().Err(err).Int64("comment_id", comment.ID).Msg("comment reload failed")
		return dto.FromModelToCommentResponse(comment), nil
	}
	return dto.FromModelToCommentResponse(created), nil
}

func (s *commentService) ListComments(ctx context.Context, postID int64) ([]dto.CommentResponse, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.store.Comments().GetByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, postID, commentID int64, requesterID, content string) (*dto.CommentResponse, error) {
	comment, err := s.ownedComment(ctx, postID, commentID, requesterID)
	if err != nil {
		return nil, err
	}

	content, err = normalizeContent(content)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.store.Comments().UpdateContent(ctx, comment); err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) DeleteComment(ctx context.Context, postID, commentID int64, requesterID string) error {
	if _, err := s.ownedComment(ctx, postID, commentID, requesterID); err != nil {
		return err
	}
	if err := s.store.Comments().Delete(ctx, commentID); err != nil {
		if repository.IsNotFound(err) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) loadPost(ctx context.Context, postID int64) (*models.Post, error) {
	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}
	return post, nil
}

// ownedComment resolves a comment through its post. A comment that exists
// under another post is reported as missing.
func (s *commentService) ownedComment(ctx context.Context, postID, commentID int64, requesterID string) (*models.Comment, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	comment, err := s.store.Comments().GetByID(ctx, commentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("load comment %d: %w", commentID, err)
	}
	if comment.PostID != postID {
		return nil, ErrCommentNotFound
	}
	if !comment.IsAuthor(requesterID) {
		return nil, ErrNotCommentAuthor
	}
	return comment, nil
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	switch n := utf8.RuneCountInString(content); {
	case n == 0:
		return "", NewValidationError(map[string]string{"content": "this field may not be blank"})
	case n > MaxCommentLength:
		return "", NewValidationError(map[string]string{
			"content": fmt.Sprintf("ensure this field has no more than %d characters", MaxCommentLength),
		})
	}
	return content, nil
}
