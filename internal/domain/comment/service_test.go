package comment

import (
	"context"
	"errors"
	"testing"

	"social-app-go/internal/domain/reaction"
	"social-app-go/internal/domain/validation"
)

var errPostHidden = errors.New("post hidden")

type fakeCommentRepo struct {
	comments map[uint]*Comment
	nextID   uint
	deleted  []uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uint]*Comment)}
}

func (r *fakeCommentRepo) Create(ctx context.Context, c *Comment) error {
	r.nextID++
	c.ID = r.nextID
	copied := *c
	r.comments[c.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id uint) (*Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) ListByPosts(ctx context.Context, postIDs []uint) ([]Comment, error) {
	var result []Comment
	for _, c := range r.comments {
		for _, id := range postIDs {
			if c.PostID == id {
				result = append(result, *c)
			}
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) UpdateBody(ctx context.Context, id uint, body string) error {
	r.comments[id].Body = body
	return nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id uint) error {
	delete(r.comments, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakePostAccess struct {
	hidden map[uint]bool
}

func (a fakePostAccess) EnsureVisible(ctx context.Context, actorID, postID uint) error {
	if a.hidden[postID] {
		return errPostHidden
	}
	return nil
}

type fakeReactor struct {
	targets []reaction.Target
}

func (r *fakeReactor) Toggle(ctx context.Context, actorID uint, target reaction.Target, reactionType string) (reaction.ToggleResult, error) {
	r.targets = append(r.targets, target)
	return reaction.ToggleResult{NumberOfReactions: 1, CurrentUserHasReaction: true, HadNoReactionBefore: true}, nil
}

func newCommentService() (*Service, *fakeCommentRepo, *fakeReactor) {
	repo := newFakeCommentRepo()
	reactor := &fakeReactor{}
	svc := NewService(repo, fakePostAccess{hidden: map[uint]bool{9: true}}, reactor)
	return svc, repo, reactor
}

func TestCreateCommentAndReply(t *testing.T) {
	svc, _, _ := newCommentService()
	ctx := context.Background()

	root, err := svc.Create(ctx, 1, 5, CreateInput{Body: "  first  "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if root.Body != "first" || root.ParentID != nil {
		t.Fatalf("unexpected comment %+v", root)
	}

	reply, err := svc.Create(ctx, 2, 5, CreateInput{Body: "reply", ParentID: &root.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Fatalf("expected reply to point at root")
	}
}

func TestCreateCommentValidation(t *testing.T) {
	svc, _, _ := newCommentService()
	ctx := context.Background()

	other, err := svc.Create(ctx, 1, 6, CreateInput{Body: "elsewhere"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	var verrs validation.Errors
	if _, err := svc.Create(ctx, 1, 5, CreateInput{Body: "   "}); !errors.As(err, &verrs) || verrs["comment"] == "" {
		t.Fatalf("expected comment validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, 1, 5, CreateInput{Body: "x", ParentID: &other.ID}); !errors.As(err, &verrs) || verrs["parent_id"] == "" {
		t.Fatalf("expected parent from another post rejected, got %v", err)
	}
	missing := uint(404)
	if _, err := svc.Create(ctx, 1, 5, CreateInput{Body: "x", ParentID: &missing}); !errors.As(err, &verrs) || verrs["parent_id"] == "" {
		t.Fatalf("expected missing parent rejected, got %v", err)
	}
	if _, err := svc.Create(ctx, 1, 9, CreateInput{Body: "x"}); !errors.Is(err, errPostHidden) {
		t.Fatalf("expected post access error, got %v", err)
	}
}

func TestUpdateAndDeleteRequireAuthor(t *testing.T) {
	svc, repo, _ := newCommentService()
	ctx := context.Background()

	c, err := svc.Create(ctx, 1, 5, CreateInput{Body: "mine"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Update(ctx, 2, c.ID, "hijack"); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got %v", err)
	}
	if err := svc.Delete(ctx, 2, c.ID); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got %v", err)
	}

	updated, err := svc.Update(ctx, 1, c.ID, "edited")
	if err != nil || updated.Body != "edited" || repo.comments[c.ID].Body != "edited" {
		t.Fatalf("expected update, got %+v %v", updated, err)
	}

	if err := svc.Delete(ctx, 1, c.ID); err != nil {
		t.Fatalf("expected delete, got %v", err)
	}
	if _, ok := repo.comments[c.ID]; ok {
		t.Fatalf("expected comment removed")
	}
	if err := svc.Delete(ctx, 1, c.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}

func TestDeletingParentLeavesRepliesDangling(t *testing.T) {
	svc, repo, _ := newCommentService()
	ctx := context.Background()

	parent, _ := svc.Create(ctx, 1, 5, CreateInput{Body: "parent"})
	if _, err := svc.Create(ctx, 2, 5, CreateInput{Body: "child", ParentID: &parent.ID}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.Delete(ctx, 1, parent.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	remaining, _ := repo.ListByPosts(ctx, []uint{5})
	if len(remaining) != 1 {
		t.Fatalf("expected the reply to remain stored, got %d", len(remaining))
	}
	if roots := BuildTree(remaining, nil); len(roots) != 0 {
		t.Fatalf("expected the dangling reply hidden from the tree")
	}
}

func TestToggleCommentReaction(t *testing.T) {
	svc, _, reactor := newCommentService()
	ctx := context.Background()

	c, _ := svc.Create(ctx, 1, 5, CreateInput{Body: "nice"})
	result, err := svc.ToggleReaction(ctx, 2, c.ID, reaction.TypeLike)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.CurrentUserHasReaction {
		t.Fatalf("expected reaction added")
	}
	if len(reactor.targets) != 1 || reactor.targets[0] != reaction.CommentTarget(c.ID) {
		t.Fatalf("expected comment target, got %+v", reactor.targets)
	}
	if _, err := svc.ToggleReaction(ctx, 2, 999, reaction.TypeLike); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}
