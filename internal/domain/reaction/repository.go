package reaction

import "context"

type Repository interface {
	Find(ctx context.Context, userID uint, target Target) (*Reaction, error)
	Create(ctx context.Context, reaction *Reaction) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, target Target) (int64, error)
	CountByTargets(ctx context.Context, kind Kind, ids []uint) (map[uint]int64, error)
	ReactedTargets(ctx context.Context, userID uint, kind Kind, ids []uint) (map[uint]bool, error)
}
