package reaction

import (
	"context"
	"errors"

	"gorm.io/gorm"
	reactiondomain "social-app-go/internal/domain/reaction"
	"social-app-go/internal/repository/postgres"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Find(ctx context.Context, userID uint, target reactiondomain.Target) (*reactiondomain.Reaction, error) {
	var reaction reactiondomain.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, string(target.Kind()), target.ID()).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reactiondomain.ErrReactionNotFound
		}
		return nil, err
	}
	return &reaction, nil
}

func (r *PostgresRepository) Create(ctx context.Context, reaction *reactiondomain.Reaction) error {
	err := r.db.WithContext(ctx).Create(reaction).Error
	if postgres.IsUniqueViolation(err) {
		return reactiondomain.ErrDuplicateReaction
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&reactiondomain.Reaction{}, id).Error
}

func (r *PostgresRepository) Count(ctx context.Context, target reactiondomain.Target) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reactiondomain.Reaction{}).
		Where("target_type = ? AND target_id = ?", string(target.Kind()), target.ID()).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountByTargets(ctx context.Context, kind reactiondomain.Kind, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	type countRow struct {
		TargetID uint
		Total    int64
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&reactiondomain.Reaction{}).
		Select("target_id, count(*) AS total").
		Where("target_type = ? AND target_id IN ?", string(kind), ids).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TargetID] = row.Total
	}
	return counts, nil
}

func (r *PostgresRepository) ReactedTargets(ctx context.Context, userID uint, kind reactiondomain.Kind, ids []uint) (map[uint]bool, error) {
	reacted := make(map[uint]bool, len(ids))
	if len(ids) == 0 || userID == 0 {
		return reacted, nil
	}

	var targetIDs []uint
	err := r.db.WithContext(ctx).
		Model(&reactiondomain.Reaction{}).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, string(kind), ids).
		Pluck("target_id", &targetIDs).Error
	if err != nil {
		return nil, err
	}

	for _, id := range targetIDs {
		reacted[id] = true
	}
	return reacted, nil
}
