package service

import (
	"errors"
	"sort"
	"strings"
)

// Error categories. Every error a service returns on purpose wraps exactly
// one of these; handlers map them to status codes with errors.Is. Anything
// else is a storage or internal failure.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrConflict         = errors.New("conflict")
	ErrValidation       = errors.New("validation failed")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrPostNotFound         = newError(ErrNotFound, "post not found")
	ErrRatingNotFound       = newError(ErrNotFound, "rating not found")
	ErrCommentNotFound      = newError(ErrNotFound, "comment not found")
	ErrCategoryNotFound     = newError(ErrNotFound, "category not found")
	ErrUserNotFound         = newError(ErrNotFound, "user not found")
	ErrNotificationNotFound = newError(ErrNotFound, "notification not found")

	ErrRatingsDisabled   = newError(ErrInvalidOperation, "ratings are disabled for this post")
	ErrSelfRating        = newError(ErrInvalidOperation, "you cannot rate your own post")
	ErrEditWindowExpired = newError(ErrInvalidOperation, "edit window expired")

	ErrAlreadyRated = newError(ErrConflict, "you have already rated this post")

	ErrNotRatingOwner     = newError(ErrForbidden, "you can only edit your own rating")
	ErrAuthorRatingLookup = newError(ErrForbidden, "authors do not rate their own posts")
	ErrNotPostAuthor      = newError(ErrForbidden, "you can only modify your own posts")
	ErrNotCommentAuthor   = newError(ErrForbidden, "you can only modify your own comments")
)

// ValidationError names each offending input field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
