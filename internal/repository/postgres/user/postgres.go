package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	domain "social-app-go/internal/domain/user"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UpsertProfile(ctx context.Context, user *domain.User) error {
	updates := map[string]interface{}{
		"email":      user.Email,
		"username":   user.Username,
		"updated_at": time.Now().UTC(),
	}
	if user.Name != "" {
		updates["name"] = user.Name
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(user).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) FindByEmailOrUsername(ctx context.Context, value string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?) OR username = ?", value, value).
		Order("id asc").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
