package group

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateGroup(ctx context.Context, group *Group) error
	GetGroupBySlug(ctx context.Context, slug string) (*Group, error)
	GetGroupByID(ctx context.Context, id uint) (*Group, error)
	UpdateGroup(ctx context.Context, group *Group) error
	IsSlugTaken(ctx context.Context, slug string) (bool, error)
	GetMembership(ctx context.Context, groupID, userID uint) (*Membership, error)
	GetMembershipByToken(ctx context.Context, token string) (*Membership, error)
	CreateMembership(ctx context.Context, membership *Membership) error
	UpdateMembershipStatus(ctx context.Context, id uint, status string) error
	UpdateMembershipRole(ctx context.Context, id uint, role string) error
	// MarkInvitationUsed approves the row and stamps token_used_at unless it was already used.
	MarkInvitationUsed(ctx context.Context, id uint, at time.Time) (bool, error)
	DeleteMembership(ctx context.Context, id uint) error
	ListMembers(ctx context.Context, groupID uint, status string) ([]MemberProfile, error)
	ListAdminIDs(ctx context.Context, groupID uint) ([]uint, error)
	ListUserGroups(ctx context.Context, userID uint) ([]UserGroup, error)
	ListApprovedGroupIDs(ctx context.Context, userID uint) ([]uint, error)
}
