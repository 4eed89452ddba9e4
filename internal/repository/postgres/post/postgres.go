package post

import (
	"context"
	"errors"

	"gorm.io/gorm"
	commentdomain "social-app-go/internal/domain/comment"
	postdomain "social-app-go/internal/domain/post"
	reactiondomain "social-app-go/internal/domain/reaction"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(postdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, post *postdomain.Post) error {
	return r.db.WithContext(ctx).Omit("User", "Attachments").Create(post).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint) (*postdomain.Post, error) {
	var post postdomain.Post
	err := r.withRelations(r.db.WithContext(ctx)).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, postdomain.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostgresRepository) UpdateBody(ctx context.Context, id uint, body string) error {
	result := r.db.WithContext(ctx).Model(&postdomain.Post{}).Where("id = ?", id).Update("body", body)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return postdomain.ErrPostNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&commentdomain.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", string(reactiondomain.KindComment), commentIDs).
				Delete(&reactiondomain.Reaction{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("target_type = ? AND target_id = ?", string(reactiondomain.KindPost), id).
			Delete(&reactiondomain.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&commentdomain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&postdomain.Attachment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&postdomain.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return postdomain.ErrPostNotFound
		}
		return nil
	})
}

func (r *PostgresRepository) CreateAttachment(ctx context.Context, attachment *postdomain.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *PostgresRepository) GetAttachment(ctx context.Context, id uint) (*postdomain.Attachment, error) {
	var attachment postdomain.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, postdomain.ErrAttachmentNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

func (r *PostgresRepository) ListAttachments(ctx context.Context, postID uint) ([]postdomain.Attachment, error) {
	var attachments []postdomain.Attachment
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("id asc").Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *PostgresRepository) DeleteAttachments(ctx context.Context, postID uint, ids []uint) ([]postdomain.Attachment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var removed []postdomain.Attachment
	if err := r.db.WithContext(ctx).Where("post_id = ? AND id IN ?", postID, ids).Find(&removed).Error; err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return removed, nil
	}

	removedIDs := make([]uint, 0, len(removed))
	for _, a := range removed {
		removedIDs = append(removedIDs, a.ID)
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", removedIDs).Delete(&postdomain.Attachment{}).Error; err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *PostgresRepository) ListTimeline(ctx context.Context, groupIDs []uint, offset, limit int) ([]postdomain.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&postdomain.Post{})
	if len(groupIDs) > 0 {
		query = query.Where("group_id IS NULL OR group_id IN ?", groupIDs)
	} else {
		query = query.Where("group_id IS NULL")
	}
	return r.page(query, offset, limit)
}

func (r *PostgresRepository) ListByGroup(ctx context.Context, groupID uint, offset, limit int) ([]postdomain.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&postdomain.Post{}).Where("group_id = ?", groupID)
	return r.page(query, offset, limit)
}

func (r *PostgresRepository) page(query *gorm.DB, offset, limit int) ([]postdomain.Post, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []postdomain.Post
	err := r.withRelations(query).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostgresRepository) withRelations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("User").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		})
}
