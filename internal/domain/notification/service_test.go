package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"social-app-go/pkg/logger"
)

type fakeNotificationRepo struct {
	items  []Notification
	nextID uint
	fail   error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *Notification) error {
	if r.fail != nil {
		return r.fail
	}
	r.nextID++
	n.ID = r.nextID
	r.items = append(r.items, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uint, limit int) ([]Notification, error) {
	var result []Notification
	for i := len(r.items) - 1; i >= 0 && len(result) < limit; i-- {
		if r.items[i].UserID == userID {
			result = append(result, r.items[i])
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, userID, id uint, at time.Time) (bool, error) {
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].ReadAt = &at
			return true, nil
		}
	}
	return false, nil
}

func TestNotifyStoresMessage(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo, logger.Nop())

	svc.Notify(context.Background(), 3, Message{Kind: KindRoleChanged, Subject: "Role changed"})

	items, err := svc.List(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 || items[0].Kind != KindRoleChanged {
		t.Fatalf("expected one role change notification, got %+v", items)
	}
}

func TestNotifySwallowsFailures(t *testing.T) {
	repo := &fakeNotificationRepo{fail: errors.New("db down")}
	svc := NewService(repo, logger.Nop())

	svc.Notify(context.Background(), 3, Message{Kind: KindInvitation})

	if len(repo.items) != 0 {
		t.Fatalf("expected nothing stored")
	}
}

func TestNotifyIgnoresAnonymous(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo, logger.Nop())

	svc.Notify(context.Background(), 0, Message{Kind: KindInvitation})
	if len(repo.items) != 0 {
		t.Fatalf("expected nothing stored for user 0")
	}
}

func TestMarkReadNotFound(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo, logger.Nop())
	svc.Notify(context.Background(), 1, Message{Kind: KindInvitation})

	if err := svc.MarkRead(context.Background(), 2, 1); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := svc.MarkRead(context.Background(), 1, 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.items[0].ReadAt == nil {
		t.Fatalf("expected read_at set")
	}
}
