package notification

import "time"

const (
	KindJoinRequested      = "group.join_requested"
	KindInvitation         = "group.invitation"
	KindInvitationApproved = "group.invitation_approved"
	KindRequestProcessed   = "group.request_processed"
	KindMemberRemoved      = "group.member_removed"
	KindRoleChanged        = "group.role_changed"
)

type Notification struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"not null;index"`
	Kind      string     `gorm:"type:varchar(64);not null"`
	Subject   string     `gorm:"not null"`
	Body      string     `gorm:"not null;default:''"`
	ActionURL string     `gorm:"column:action_url;not null;default:''"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

// Message is what a domain service hands over to be delivered to a user.
type Message struct {
	Kind      string
	Subject   string
	Body      string
	ActionURL string
}
