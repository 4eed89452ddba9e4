package comment

import "context"

type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id uint) (*Comment, error)
	ListByPosts(ctx context.Context, postIDs []uint) ([]Comment, error)
	UpdateBody(ctx context.Context, id uint, body string) error
	// Delete removes the comment and the reactions on it. Replies are left in place.
	Delete(ctx context.Context, id uint) error
}
