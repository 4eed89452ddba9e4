package group

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	groupdomain "social-app-go/internal/domain/group"
	"social-app-go/internal/repository/postgres"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(groupdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, group *groupdomain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *PostgresRepository) GetGroupBySlug(ctx context.Context, slug string) (*groupdomain.Group, error) {
	var group groupdomain.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) GetGroupByID(ctx context.Context, id uint) (*groupdomain.Group, error) {
	var group groupdomain.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) UpdateGroup(ctx context.Context, group *groupdomain.Group) error {
	return r.db.WithContext(ctx).
		Model(group).
		Select("name", "description", "auto_approval", "cover_path", "thumbnail_path").
		Updates(group).Error
}

// IsSlugTaken also counts soft-deleted groups since the unique index still covers them.
func (r *PostgresRepository) IsSlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Unscoped().Model(&groupdomain.Group{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetMembership(ctx context.Context, groupID, userID uint) (*groupdomain.Membership, error) {
	var membership groupdomain.Membership
	if err := r.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func (r *PostgresRepository) GetMembershipByToken(ctx context.Context, token string) (*groupdomain.Membership, error) {
	var membership groupdomain.Membership
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func (r *PostgresRepository) CreateMembership(ctx context.Context, membership *groupdomain.Membership) error {
	err := r.db.WithContext(ctx).Create(membership).Error
	if postgres.IsUniqueViolation(err) {
		return groupdomain.ErrMembershipExists
	}
	return err
}

func (r *PostgresRepository) UpdateMembershipStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&groupdomain.Membership{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PostgresRepository) UpdateMembershipRole(ctx context.Context, id uint, role string) error {
	return r.db.WithContext(ctx).Model(&groupdomain.Membership{}).Where("id = ?", id).Update("role", role).Error
}

func (r *PostgresRepository) MarkInvitationUsed(ctx context.Context, id uint, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&groupdomain.Membership{}).
		Where("id = ? AND token_used_at IS NULL", id).
		Updates(map[string]interface{}{
			"status":        groupdomain.StatusApproved,
			"token_used_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) DeleteMembership(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&groupdomain.Membership{}, id).Error
}

func (r *PostgresRepository) ListMembers(ctx context.Context, groupID uint, status string) ([]groupdomain.MemberProfile, error) {
	type memberRow struct {
		UserID     uint      `gorm:"column:user_id"`
		Name       string    `gorm:"column:name"`
		Username   string    `gorm:"column:username"`
		Email      string    `gorm:"column:email"`
		AvatarPath *string   `gorm:"column:avatar_path"`
		Role       string    `gorm:"column:role"`
		Status     string    `gorm:"column:status"`
		JoinedAt   time.Time `gorm:"column:joined_at"`
	}

	query := r.db.WithContext(ctx).
		Table("group_users").
		Select("group_users.user_id, users.name, users.username, users.email, users.avatar_path, group_users.role, group_users.status, group_users.created_at AS joined_at").
		Joins("join users on users.id = group_users.user_id").
		Where("group_users.group_id = ?", groupID)
	if status != "" {
		query = query.Where("group_users.status = ?", status)
	}

	var rows []memberRow
	if err := query.Order("users.name asc, users.id asc").Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]groupdomain.MemberProfile, 0, len(rows))
	for _, row := range rows {
		members = append(members, groupdomain.MemberProfile{
			UserID:     row.UserID,
			Name:       row.Name,
			Username:   row.Username,
			Email:      row.Email,
			AvatarPath: row.AvatarPath,
			Role:       row.Role,
			Status:     row.Status,
			JoinedAt:   row.JoinedAt,
		})
	}
	return members, nil
}

func (r *PostgresRepository) ListAdminIDs(ctx context.Context, groupID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&groupdomain.Membership{}).
		Where("group_id = ? AND role = ? AND status = ?", groupID, groupdomain.RoleAdmin, groupdomain.StatusApproved).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) ListUserGroups(ctx context.Context, userID uint) ([]groupdomain.UserGroup, error) {
	var memberships []groupdomain.Membership
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []groupdomain.UserGroup{}, nil
	}

	groupIDs := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	var groups []groupdomain.Group
	if err := r.db.WithContext(ctx).Where("id IN ?", groupIDs).Order("name asc").Find(&groups).Error; err != nil {
		return nil, err
	}

	byGroup := make(map[uint]groupdomain.Membership, len(memberships))
	for _, m := range memberships {
		byGroup[m.GroupID] = m
	}

	result := make([]groupdomain.UserGroup, 0, len(groups))
	for _, g := range groups {
		m := byGroup[g.ID]
		result = append(result, groupdomain.UserGroup{Group: g, Role: m.Role, Status: m.Status})
	}
	return result, nil
}

func (r *PostgresRepository) ListApprovedGroupIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Table("group_users").
		Joins("join groups on groups.id = group_users.group_id AND groups.deleted_at IS NULL").
		Where("group_users.user_id = ? AND group_users.status = ?", userID, groupdomain.StatusApproved).
		Pluck("group_users.group_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
