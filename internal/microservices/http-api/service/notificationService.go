package service

import (
	"context"
	"fmt"

	"focushub/internal/events"
	"focushub/internal/logging"
	"focushub/internal/metrics"
	"focushub/internal/microservices/http-api/dto"
	"focushub/internal/microservices/http-api/models"
	"focushub/internal/microservices/http-api/repository"
)

type NotificationService interface {
	List(ctx context.Context, userID string) ([]dto.NotificationResponse, error)
	ListUnread(ctx context.Context, userID string) ([]dto.NotificationResponse, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	AddPushSubscription(ctx context.Context, userID string, req dto.PushSubscriptionDTO) error
	// Subscribe wires the comment fan-out into bus.
	Subscribe(bus *events.Bus)
}

type notificationService struct {
	store  repository.Store
	pusher Pusher
}

func NewNotificationService(store repository.Store, pusher Pusher) NotificationService {
	if pusher == nil {
		pusher = LogPusher{}
	}
	return &notificationService{store: store, pusher: pusher}
}

func (s *notificationService) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.CommentCreatedName, s.handleCommentCreated)
}

func (s *notificationService) List(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	return s.list(ctx, userID, false)
}

func (s *notificationService) ListUnread(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	return s.list(ctx, userID, true)
}

func (s *notificationService) list(ctx context.Context, userID string, unreadOnly bool) ([]dto.NotificationResponse, error) {
	rows, err := s.store.Notifications().GetByRecipient(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.NotificationResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.FromModelToNotificationResponse(&rows[i]))
	}
	return resp, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.store.Notifications().CountUnread(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	ok, err := s.store.Notifications().MarkAsRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	return s.store.Notifications().MarkAllAsRead(ctx, userID)
}

func (s *notificationService) AddPushSubscription(ctx context.Context, userID string, req dto.PushSubscriptionDTO) error {
	return s.store.PushSubscriptions().Upsert(ctx, &models.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
}

// handleCommentCreated notifies the post author about a new comment and
// pushes it to each of their subscriptions. Authors commenting on their own
// post are not notified.
func (s *notificationService) handleCommentCreated(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.CommentCreated)
	if !ok {
		return fmt.Errorf("unexpected event %T", e)
	}
	if models.SameUser(ev.AuthorID, ev.PostAuthorID) {
		return nil
	}

	postID := ev.PostID
	n := &models.Notification{
		RecipientID: ev.PostAuthorID,
		ActorID:     ev.AuthorID,
		Type:        models.NotificationTypeComment,
		PostID:      &postID,
	}
	if err := s.store.Notifications().Create(ctx, n); err != nil {
		return err
	}
	metrics.NotificationsTotal.WithLabelValues(n.Type).Inc()

	// reload for the actor's username
	if full, err := s.store.Notifications().GetByID(ctx, n.ID); err == nil {
		n = full
	}

	subs, err := s.store.PushSubscriptions().GetByUser(ctx, n.RecipientID)
	if err != nil {
		return fmt.Errorf("load push subscriptions: %w", err)
	}

	msg := PushMessage{Title: "New comment", Body: n.Message(), PostID: n.PostID}
	for _, sub := range subs {
		if err := s.pusher.Push(ctx, sub, msg); err != nil {
			metrics.PushFailures.Inc()
			logging.Logger.Warn().Err(err).Str("endpoint", sub.Endpoint).Msg("push delivery failed")
		}
	}
	return nil
}
