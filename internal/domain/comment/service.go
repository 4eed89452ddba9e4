package comment

import (
	"context"
	"errors"
	"strings"

	"social-app-go/internal/domain/reaction"
	"social-app-go/internal/domain/validation"
)

// PostAccess reports whether the actor may read and discuss a post.
type PostAccess interface {
	EnsureVisible(ctx context.Context, actorID, postID uint) error
}

type Reactor interface {
	Toggle(ctx context.Context, actorID uint, target reaction.Target, reactionType string) (reaction.ToggleResult, error)
}

type Service struct {
	repo      Repository
	posts     PostAccess
	reactions Reactor
}

func NewService(repo Repository, posts PostAccess, reactions Reactor) *Service {
	return &Service{repo: repo, posts: posts, reactions: reactions}
}

func (s *Service) Create(ctx context.Context, actorID, postID uint, input CreateInput) (*Comment, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, validation.Field("comment", "The comment field is required.")
	}
	if err := s.posts.EnsureVisible(ctx, actorID, postID); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *input.ParentID)
		if errors.Is(err, ErrCommentNotFound) || (err == nil && parent.PostID != postID) {
			return nil, validation.Field("parent_id", "The selected parent comment is invalid.")
		}
		if err != nil {
			return nil, err
		}
	}

	c := Comment{
		Body:     body,
		UserID:   actorID,
		PostID:   postID,
		ParentID: input.ParentID,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	// reload so the author is attached
	return s.repo.GetByID(ctx, c.ID)
}

func (s *Service) Update(ctx context.Context, actorID, id uint, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, validation.Field("comment", "The comment field is required.")
	}

	c, err := s.authored(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBody(ctx, id, body); err != nil {
		return nil, err
	}

	c.Body = body
	return c, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id uint) error {
	if _, err := s.authored(ctx, actorID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ToggleReaction(ctx context.Context, actorID, id uint, reactionType string) (reaction.ToggleResult, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return reaction.ToggleResult{}, err
	}
	if err := s.posts.EnsureVisible(ctx, actorID, c.PostID); err != nil {
		return reaction.ToggleResult{}, err
	}
	return s.reactions.Toggle(ctx, actorID, reaction.CommentTarget(c.ID), reactionType)
}

func (s *Service) authored(ctx context.Context, actorID, id uint) (*Comment, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID == 0 || c.UserID != actorID {
		return nil, ErrNotAuthor
	}
	return c, nil
}
