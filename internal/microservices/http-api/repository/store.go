package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// uniqueViolation is the postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Store groups the repositories so services can run several of them inside
// a single transaction.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Categories() CategoryRepository
	Ratings() RatingRepository
	Comments() CommentRepository
	Notifications() NotificationRepository
	PushSubscriptions() PushSubscriptionRepository

	// Transaction runs fn against a Store bound to one database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db     *gorm.DB
	reader *gorm.DB
}

// NewStore builds a Store on db. reader, when not nil, serves the read-only
// rating aggregates (typically a replica); it may lag behind db.
func NewStore(db, reader *gorm.DB) Store {
	if reader == nil {
		reader = db
	}
	return &gormStore{db: db, reader: reader}
}

func (s *gormStore) Users() UserRepository           { return NewUserRepository(s.db) }
func (s *gormStore) Posts() PostRepository           { return NewPostRepository(s.db) }
func (s *gormStore) Categories() CategoryRepository  { return NewCategoryRepository(s.db) }
func (s *gormStore) Ratings() RatingRepository       { return NewRatingRepository(s.db, s.reader) }
func (s *gormStore) Comments() CommentRepository     { return NewCommentRepository(s.db) }
func (s *gormStore) Notifications() NotificationRepository {
	return NewNotificationRepository(s.db)
}
func (s *gormStore) PushSubscriptions() PushSubscriptionRepository {
	return NewPushSubscriptionRepository(s.db)
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// reads inside a transaction must see its own writes
		return fn(&gormStore{db: tx, reader: tx})
	})
}
