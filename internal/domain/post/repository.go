package post

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id uint) (*Post, error)
	UpdateBody(ctx context.Context, id uint, body string) error
	// Delete removes the post with its attachments, comments and every reaction on them.
	Delete(ctx context.Context, id uint) error
	CreateAttachment(ctx context.Context, attachment *Attachment) error
	GetAttachment(ctx context.Context, id uint) (*Attachment, error)
	ListAttachments(ctx context.Context, postID uint) ([]Attachment, error)
	// DeleteAttachments removes the listed attachments of postID and returns the removed rows.
	DeleteAttachments(ctx context.Context, postID uint, ids []uint) ([]Attachment, error)
	// ListTimeline returns public posts and posts of the given groups, newest first.
	ListTimeline(ctx context.Context, groupIDs []uint, offset, limit int) ([]Post, int64, error)
	ListByGroup(ctx context.Context, groupID uint, offset, limit int) ([]Post, int64, error)
}
