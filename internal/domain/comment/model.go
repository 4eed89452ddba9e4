package comment

import (
	"time"

	"social-app-go/internal/domain/user"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Body      string    `gorm:"not null"`
	UserID    uint      `gorm:"not null"`
	PostID    uint      `gorm:"not null;index"`
	ParentID  *uint     `gorm:"index"`
	User      user.User `gorm:"foreignKey:UserID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Comment) TableName() string {
	return "post_comments"
}

type CreateInput struct {
	Body     string
	ParentID *uint
}
