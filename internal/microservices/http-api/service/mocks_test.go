package service

import (
	"context"
	"sync"

	"focushub/internal/events"
	"focushub/internal/microservices/http-api/dto"
	"focushub/internal/microservices/http-api/models"
	"focushub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// mockStore hands out the same repositories inside and outside transactions.
type mockStore struct {
	users         *MockUserRepository
	posts         *MockPostRepository
	categories    *MockCategoryRepository
	ratings       repository.RatingRepository
	comments      *MockCommentRepository
	notifications *MockNotificationRepository
	pushSubs      *MockPushSubscriptionRepository

	transactions int
}

func newMockStore() *mockStore {
	return &mockStore{
		users:         new(MockUserRepository),
		posts:         new(MockPostRepository),
		categories:    new(MockCategoryRepository),
		ratings:       new(MockRatingRepository),
		comments:      new(MockCommentRepository),
		notifications: new(MockNotificationRepository),
		pushSubs:      new(MockPushSubscriptionRepository),
	}
}

func (s *mockStore) Users() repository.UserRepository           { return s.users }
func (s *mockStore) Posts() repository.PostRepository           { return s.posts }
func (s *mockStore) Categories() repository.CategoryRepository  { return s.categories }
func (s *mockStore) Ratings() repository.RatingRepository       { return s.ratings }
func (s *mockStore) Comments() repository.CommentRepository     { return s.comments }
func (s *mockStore) Notifications() repository.NotificationRepository {
	return s.notifications
}
func (s *mockStore) PushSubscriptions() repository.PushSubscriptionRepository {
	return s.pushSubs
}

func (s *mockStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.transactions++
	return fn(s)
}

func (s *mockStore) ratingMock() *MockRatingRepository {
	return s.ratings.(*MockRatingRepository)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockPostRepository mocks the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetSummary(ctx context.Context, id int64) (*repository.PostSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PostSummary), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, filter repository.PostFilter) ([]repository.PostSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.PostSummary), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

// MockRatingRepository mocks the RatingRepository interface
type MockRatingRepository struct {
	mock.Mock
	replica bool
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) UpdateScores(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByPostAndRater(ctx context.Context, postID int64, raterID string) (*models.Rating, error) {
	args := m.Called(ctx, postID, raterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) AggregateByPost(ctx context.Context, postID int64) (*repository.RatingAggregate, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RatingAggregate), args.Error(1)
}

func (m *MockRatingRepository) AggregateByPostPrimary(ctx context.Context, postID int64) (*repository.RatingAggregate, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RatingAggregate), args.Error(1)
}

func (m *MockRatingRepository) ReadsFromReplica() bool { return m.replica }

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

// MockNotificationRepository mocks the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, recipientID string, id int64) (bool, error) {
	args := m.Called(ctx, recipientID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPushSubscriptionRepository mocks the PushSubscriptionRepository interface
type MockPushSubscriptionRepository struct {
	mock.Mock
}

func (m *MockPushSubscriptionRepository) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockPushSubscriptionRepository) GetByUser(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PushSubscription), args.Error(1)
}

// MockPusher mocks the Pusher interface
type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Push(ctx context.Context, sub models.PushSubscription, msg PushMessage) error {
	args := m.Called(ctx, sub, msg)
	return args.Error(0)
}

// memRatings is an in-memory RatingRepository that enforces the
// (post, rater) unique index.
type memRatings struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Rating
}

func newMemRatings() *memRatings {
	return &memRatings{rows: make(map[int64]*models.Rating)}
}

func (r *memRatings) Create(ctx context.Context, rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.PostID == rating.PostID && existing.RaterID == rating.RaterID {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	rating.ID = r.nextID
	stored := *rating
	r.rows[rating.ID] = &stored
	return nil
}

func (r *memRatings) UpdateScores(ctx context.Context, rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[rating.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Composition = rating.Composition
	stored.ClarityFocus = rating.ClarityFocus
	stored.Lighting = rating.Lighting
	stored.Creativity = rating.Creativity
	stored.TechnicalAdaptation = rating.TechnicalAdaptation
	stored.UpdatedAt = rating.UpdatedAt
	return nil
}

func (r *memRatings) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *stored
	return &cp, nil
}

func (r *memRatings) GetByIDForUpdate(ctx context.Context, id int64) (*models.Rating, error) {
	return r.GetByID(ctx, id)
}

func (r *memRatings) GetByPostAndRater(ctx context.Context, postID int64, raterID string) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.rows {
		if stored.PostID == postID && stored.RaterID == raterID {
			cp := *stored
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRatings) AggregateByPost(ctx context.Context, postID int64) (*repository.RatingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agg := &repository.RatingAggregate{}
	for _, stored := range r.rows {
		if stored.PostID != postID {
			continue
		}
		agg.Total++
		agg.Composition += int64(stored.Composition)
		agg.ClarityFocus += int64(stored.ClarityFocus)
		agg.Lighting += int64(stored.Lighting)
		agg.Creativity += int64(stored.Creativity)
		agg.TechnicalAdaptation += int64(stored.TechnicalAdaptation)
	}
	return agg, nil
}

func (r *memRatings) AggregateByPostPrimary(ctx context.Context, postID int64) (*repository.RatingAggregate, error) {
	return r.AggregateByPost(ctx, postID)
}

func (r *memRatings) ReadsFromReplica() bool { return false }

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.events = append(p.events, e)
}

type memStatsCache struct {
	data        map[int64]*dto.RatingStatistics
	invalidated []int64
}

func newMemStatsCache() *memStatsCache {
	return &memStatsCache{data: make(map[int64]*dto.RatingStatistics)}
}

func (c *memStatsCache) Enabled() bool { return true }

func (c *memStatsCache) Get(_ context.Context, postID int64) (*dto.RatingStatistics, bool) {
	s, ok := c.data[postID]
	return s, ok
}

func (c *memStatsCache) Add(_ context.Context, postID int64, stats *dto.RatingStatistics) {
	if _, ok := c.data[postID]; !ok {
		c.data[postID] = stats
	}
}

func (c *memStatsCache) Set(_ context.Context, postID int64, stats *dto.RatingStatistics) {
	c.data[postID] = stats
}

func (c *memStatsCache) Invalidate(_ context.Context, postID int64) {
	delete(c.data, postID)
	c.invalidated = append(c.invalidated, postID)
}

func intPtr(v int) *int { return &v }

func scores(c, cf, l, cr, ta int) dto.CreateRatingDTO {
	return dto.CreateRatingDTO{
		Composition:         intPtr(c),
		ClarityFocus:        intPtr(cf),
		Lighting:            intPtr(l),
		Creativity:          intPtr(cr),
		TechnicalAdaptation: intPtr(ta),
	}
}
