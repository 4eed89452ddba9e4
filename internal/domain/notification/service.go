package notification

import (
	"context"
	"time"

	"social-app-go/pkg/logger"
)

const defaultListLimit = 50

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log.Component("notifications"),
		now:  time.Now,
	}
}

// Notify stores the message for the user. Delivery failures are logged and dropped.
func (s *Service) Notify(ctx context.Context, userID uint, msg Message) {
	if userID == 0 {
		return
	}

	n := Notification{
		UserID:    userID,
		Kind:      msg.Kind,
		Subject:   msg.Subject,
		Body:      msg.Body,
		ActionURL: msg.ActionURL,
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		s.log.InternalError("notifications.notify: delivery failed", err, "user_id", userID, "kind", msg.Kind)
		return
	}
	s.log.Info("notification sent", "user_id", userID, "kind", msg.Kind, "notification_id", n.ID)
}

func (s *Service) List(ctx context.Context, userID uint) ([]Notification, error) {
	items, err := s.repo.ListByUser(ctx, userID, defaultListLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Notification{}
	}
	return items, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id uint) error {
	ok, err := s.repo.MarkRead(ctx, userID, id, s.now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
