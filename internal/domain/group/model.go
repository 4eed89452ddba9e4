package group

import (
	"io"
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	ActionApprove = "approve"
	ActionReject  = "reject"
)

type Group struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"not null"`
	Slug          string  `gorm:"not null;uniqueIndex"`
	Description   string  `gorm:"not null;default:''"`
	AutoApproval  bool    `gorm:"not null"`
	CoverPath     *string `gorm:"type:text"`
	ThumbnailPath *string `gorm:"type:text"`
	OwnerID       uint    `gorm:"column:user_id;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// Membership is a row of group_users. A user has at most one row per group.
type Membership struct {
	ID              uint       `gorm:"primaryKey"`
	UserID          uint       `gorm:"not null"`
	GroupID         uint       `gorm:"not null"`
	Role            string     `gorm:"type:varchar(16);not null"`
	Status          string     `gorm:"type:varchar(16);not null"`
	Token           *string    `gorm:"type:varchar(256)"`
	TokenExpiryDate *time.Time `gorm:"column:token_expiry_date"`
	TokenUsedAt     *time.Time `gorm:"column:token_used_at"`
	CreatedBy       uint       `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Membership) TableName() string {
	return "group_users"
}

type MemberProfile struct {
	UserID     uint
	Name       string
	Username   string
	Email      string
	AvatarPath *string
	Role       string
	Status     string
	JoinedAt   time.Time
}

// UserGroup is a group seen through one user's membership.
type UserGroup struct {
	Group  Group
	Role   string
	Status string
}

type GroupView struct {
	Group          Group
	Membership     *Membership
	IsAdmin        bool
	IsOwner        bool
	CanViewContent bool
	Members        []MemberProfile
	Requests       []MemberProfile
}

type GroupInput struct {
	Name         string
	Description  string
	AutoApproval bool
}

type ImageUpload struct {
	Filename string
	Content  io.Reader
}

type ImagesInput struct {
	Cover     *ImageUpload
	Thumbnail *ImageUpload
}
