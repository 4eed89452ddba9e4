package comment

import (
	"context"
	"errors"

	"gorm.io/gorm"
	commentdomain "social-app-go/internal/domain/comment"
	reactiondomain "social-app-go/internal/domain/reaction"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *commentdomain.Comment) error {
	return r.db.WithContext(ctx).Omit("User").Create(comment).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint) (*commentdomain.Comment, error) {
	var comment commentdomain.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commentdomain.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *PostgresRepository) ListByPosts(ctx context.Context, postIDs []uint) ([]commentdomain.Comment, error) {
	var comments []commentdomain.Comment
	if len(postIDs) == 0 {
		return comments, nil
	}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id IN ?", postIDs).
		Order("id asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PostgresRepository) UpdateBody(ctx context.Context, id uint, body string) error {
	result := r.db.WithContext(ctx).Model(&commentdomain.Comment{}).Where("id = ?", id).Update("body", body)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commentdomain.ErrCommentNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", string(reactiondomain.KindComment), id).
			Delete(&reactiondomain.Reaction{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&commentdomain.Comment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return commentdomain.ErrCommentNotFound
		}
		return nil
	})
}
