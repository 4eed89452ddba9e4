package user

import "context"

type Repository interface {
	UpsertProfile(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	FindByEmailOrUsername(ctx context.Context, value string) (*User, error)
	ListByIDs(ctx context.Context, ids []uint) ([]User, error)
}
