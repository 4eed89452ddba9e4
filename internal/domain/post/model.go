package post

import (
	"io"
	"time"

	"social-app-go/internal/domain/comment"
	"social-app-go/internal/domain/user"
)

type Post struct {
	ID          uint         `gorm:"primaryKey"`
	Body        string       `gorm:"not null;default:''"`
	UserID      uint         `gorm:"not null"`
	GroupID     *uint        `gorm:"index"`
	User        user.User    `gorm:"foreignKey:UserID"`
	Attachments []Attachment `gorm:"foreignKey:PostID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Attachment struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	Path      string `gorm:"not null"`
	Mime      string `gorm:"not null;default:''"`
	Size      int64  `gorm:"not null;default:0"`
	CreatedBy uint   `gorm:"not null"`
	CreatedAt time.Time
}

func (Attachment) TableName() string {
	return "post_attachments"
}

// Upload is a file received with a post. Open is called once, while the post is saved.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type CreateInput struct {
	Body        string
	GroupID     *uint
	Attachments []Upload
}

type UpdateInput struct {
	Body                 string
	Attachments          []Upload
	DeletedAttachmentIDs []uint
}

type View struct {
	Post                   Post
	NumberOfReactions      int64
	CurrentUserHasReaction bool
	NumberOfComments       int
	Comments               []*comment.Node
}

type Page struct {
	Items   []View
	Page    int
	PerPage int
	Total   int64
}
