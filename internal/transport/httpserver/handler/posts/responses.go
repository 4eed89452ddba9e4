package posts

import (
	"fmt"
	"time"

	commentdomain "social-app-go/internal/domain/comment"
	postdomain "social-app-go/internal/domain/post"
	"social-app-go/internal/domain/reaction"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
)

type PostResponse struct {
	ID                     uint                       `json:"id"`
	Body                   string                     `json:"body"`
	User                   commonhandler.UserResponse `json:"user"`
	GroupID                *uint                      `json:"group_id"`
	Attachments            []AttachmentResponse       `json:"attachments"`
	NumberOfReactions      int64                      `json:"number_of_reactions"`
	CurrentUserHasReaction bool                       `json:"current_user_has_reaction"`
	NumberOfComments       int                        `json:"number_of_comments"`
	Comments               []CommentResponse          `json:"comments"`
	CreatedAt              time.Time                  `json:"created_at"`
	UpdatedAt              time.Time                  `json:"updated_at"`
}

type AttachmentResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Mime        string `json:"mime"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

type CommentResponse struct {
	ID                     uint                       `json:"id"`
	Comment                string                     `json:"comment"`
	ShortComment           string                     `json:"short_comment"`
	PostID                 uint                       `json:"post_id"`
	ParentID               *uint                      `json:"parent_id"`
	User                   commonhandler.UserResponse `json:"user"`
	NumberOfReactions      int64                      `json:"number_of_reactions"`
	NumberOfComments       int                        `json:"number_of_comments"`
	CurrentUserHasReaction bool                       `json:"current_user_has_reaction"`
	Comments               []CommentResponse          `json:"comments"`
	CreatedAt              time.Time                  `json:"created_at"`
	UpdatedAt              time.Time                  `json:"updated_at"`
}

type PageResponse struct {
	Items   []PostResponse `json:"items"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Total   int64          `json:"total"`
}

type reactionResponse struct {
	NumberOfReactions      int64 `json:"number_of_reactions"`
	CurrentUserHasReaction bool  `json:"current_user_has_reaction"`
}

func ToPostResponse(view postdomain.View, urls commonhandler.FileURLs) PostResponse {
	attachments := make([]AttachmentResponse, 0, len(view.Post.Attachments))
	for _, a := range view.Post.Attachments {
		attachments = append(attachments, AttachmentResponse{
			ID:          a.ID,
			Name:        a.Name,
			Mime:        a.Mime,
			Size:        a.Size,
			DownloadURL: fmt.Sprintf("/post/download/%d", a.ID),
		})
	}

	return PostResponse{
		ID:                     view.Post.ID,
		Body:                   view.Post.Body,
		User:                   commonhandler.ToUserResponse(view.Post.User, urls),
		GroupID:                view.Post.GroupID,
		Attachments:            attachments,
		NumberOfReactions:      view.NumberOfReactions,
		CurrentUserHasReaction: view.CurrentUserHasReaction,
		NumberOfComments:       view.NumberOfComments,
		Comments:               toCommentResponses(view.Comments, urls),
		CreatedAt:              view.Post.CreatedAt,
		UpdatedAt:              view.Post.UpdatedAt,
	}
}

func ToPageResponse(page *postdomain.Page, urls commonhandler.FileURLs) PageResponse {
	items := make([]PostResponse, 0, len(page.Items))
	for _, view := range page.Items {
		items = append(items, ToPostResponse(view, urls))
	}
	return PageResponse{Items: items, Page: page.Page, PerPage: page.PerPage, Total: page.Total}
}

func toCommentResponses(nodes []*commentdomain.Node, urls commonhandler.FileURLs) []CommentResponse {
	result := make([]CommentResponse, 0, len(nodes))
	for _, node := range nodes {
		item := toCommentResponse(node.Comment, urls)
		item.ShortComment = node.ShortBody
		item.NumberOfReactions = node.NumberOfReactions
		item.NumberOfComments = node.NumberOfComments
		item.CurrentUserHasReaction = node.CurrentUserHasReaction
		item.Comments = toCommentResponses(node.Children, urls)
		result = append(result, item)
	}
	return result
}

func toCommentResponse(c commentdomain.Comment, urls commonhandler.FileURLs) CommentResponse {
	return CommentResponse{
		ID:           c.ID,
		Comment:      c.Body,
		ShortComment: commentdomain.ShortBody(c.Body),
		PostID:       c.PostID,
		ParentID:     c.ParentID,
		User:         commonhandler.ToUserResponse(c.User, urls),
		Comments:     []CommentResponse{},
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toReactionResponse(result reaction.ToggleResult) reactionResponse {
	return reactionResponse{
		NumberOfReactions:      result.NumberOfReactions,
		CurrentUserHasReaction: result.CurrentUserHasReaction,
	}
}
