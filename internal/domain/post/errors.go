package post

import "errors"

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrNotAuthor          = errors.New("not the post author")
	ErrNotGroupMember     = errors.New("not an approved group member")
	ErrPostNotCreated     = errors.New("post not created")
	ErrPostNotUpdated     = errors.New("post not updated")
)
