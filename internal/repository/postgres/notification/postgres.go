package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
	notificationdomain "social-app-go/internal/domain/notification"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *notificationdomain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]notificationdomain.Notification, error) {
	var items []notificationdomain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarkRead keeps the first read_at when the notification was already read.
func (r *PostgresRepository) MarkRead(ctx context.Context, userID, id uint, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationdomain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", gorm.Expr("COALESCE(read_at, ?)", at))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
