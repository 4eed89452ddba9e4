package reaction

import (
	"context"
	"errors"
	"testing"

	"social-app-go/internal/domain/validation"
)

type fakeReactionRepo struct {
	rows      map[uint]*Reaction
	nextID    uint
	raceOnAdd bool
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{rows: make(map[uint]*Reaction)}
}

func (r *fakeReactionRepo) Find(ctx context.Context, userID uint, target Target) (*Reaction, error) {
	for _, row := range r.rows {
		if row.UserID == userID && row.Target() == target {
			copied := *row
			return &copied, nil
		}
	}
	return nil, ErrReactionNotFound
}

func (r *fakeReactionRepo) Create(ctx context.Context, reaction *Reaction) error {
	if r.raceOnAdd {
		r.raceOnAdd = false
		r.insert(&Reaction{Type: TypeLike, UserID: reaction.UserID, TargetType: reaction.TargetType, TargetID: reaction.TargetID})
	}
	if _, err := r.Find(ctx, reaction.UserID, reaction.Target()); err == nil {
		return ErrDuplicateReaction
	}
	r.insert(reaction)
	return nil
}

func (r *fakeReactionRepo) insert(reaction *Reaction) {
	r.nextID++
	reaction.ID = r.nextID
	copied := *reaction
	r.rows[reaction.ID] = &copied
}

func (r *fakeReactionRepo) Delete(ctx context.Context, id uint) error {
	delete(r.rows, id)
	return nil
}

func (r *fakeReactionRepo) Count(ctx context.Context, target Target) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.Target() == target {
			count++
		}
	}
	return count, nil
}

func (r *fakeReactionRepo) CountByTargets(ctx context.Context, kind Kind, ids []uint) (map[uint]int64, error) {
	result := make(map[uint]int64)
	for _, row := range r.rows {
		if row.TargetType == kind {
			result[row.TargetID]++
		}
	}
	return result, nil
}

func (r *fakeReactionRepo) ReactedTargets(ctx context.Context, userID uint, kind Kind, ids []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	for _, row := range r.rows {
		if row.TargetType == kind && row.UserID == userID {
			result[row.TargetID] = true
		}
	}
	return result, nil
}

func TestToggleTwiceRestoresState(t *testing.T) {
	repo := newFakeReactionRepo()
	svc := NewService(repo)
	ctx := context.Background()
	target := PostTarget(10)

	if _, err := svc.Toggle(ctx, 2, target, TypeLove); err != nil {
		t.Fatalf("seed: %v", err)
	}

	first, err := svc.Toggle(ctx, 1, target, "")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.HadNoReactionBefore || !first.CurrentUserHasReaction || first.NumberOfReactions != 2 {
		t.Fatalf("unexpected first result %+v", first)
	}

	second, err := svc.Toggle(ctx, 1, target, TypeLike)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.HadNoReactionBefore || second.CurrentUserHasReaction || second.NumberOfReactions != 1 {
		t.Fatalf("unexpected second result %+v", second)
	}
}

func TestToggleDifferentTypeOnlyRemoves(t *testing.T) {
	repo := newFakeReactionRepo()
	svc := NewService(repo)
	ctx := context.Background()
	target := CommentTarget(5)

	if _, err := svc.Toggle(ctx, 1, target, TypeLike); err != nil {
		t.Fatalf("like: %v", err)
	}
	switched, err := svc.Toggle(ctx, 1, target, TypeLove)
	if err != nil {
		t.Fatalf("love: %v", err)
	}
	if switched.CurrentUserHasReaction || switched.NumberOfReactions != 0 {
		t.Fatalf("expected the first click to only remove, got %+v", switched)
	}

	again, err := svc.Toggle(ctx, 1, target, TypeLove)
	if err != nil {
		t.Fatalf("love again: %v", err)
	}
	if !again.CurrentUserHasReaction {
		t.Fatalf("expected the second click to add")
	}
	row, _ := repo.Find(ctx, 1, target)
	if row.Type != TypeLove {
		t.Fatalf("expected love reaction, got %q", row.Type)
	}
}

func TestToggleKeepsPostAndCommentTargetsApart(t *testing.T) {
	repo := newFakeReactionRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, 1, PostTarget(3), TypeLike); err != nil {
		t.Fatalf("post: %v", err)
	}
	result, err := svc.Toggle(ctx, 1, CommentTarget(3), TypeLike)
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if !result.HadNoReactionBefore || result.NumberOfReactions != 1 {
		t.Fatalf("comment 3 must not see the reaction on post 3, got %+v", result)
	}
}

func TestToggleConcurrentInsert(t *testing.T) {
	repo := newFakeReactionRepo()
	repo.raceOnAdd = true
	svc := NewService(repo)

	result, err := svc.Toggle(context.Background(), 1, PostTarget(1), TypeLike)
	if err != nil {
		t.Fatalf("expected duplicate insert to be absorbed, got %v", err)
	}
	if !result.CurrentUserHasReaction || result.NumberOfReactions != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestToggleValidation(t *testing.T) {
	svc := NewService(newFakeReactionRepo())
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, 1, Target{}, TypeLike); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	_, err := svc.Toggle(ctx, 1, PostTarget(1), "meh")
	var verrs validation.Errors
	if !errors.As(err, &verrs) || verrs["reaction"] == "" {
		t.Fatalf("expected reaction validation error, got %v", err)
	}
}

func TestSummaries(t *testing.T) {
	repo := newFakeReactionRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for _, userID := range []uint{1, 2, 3} {
		if _, err := svc.Toggle(ctx, userID, CommentTarget(7), TypeLike); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	if _, err := svc.Toggle(ctx, 2, CommentTarget(8), TypeWow); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	summaries, err := svc.Summaries(ctx, 1, KindComment, []uint{7, 8, 9})
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if s := summaries[7]; s.NumberOfReactions != 3 || !s.CurrentUserHasReaction {
		t.Fatalf("unexpected summary for 7: %+v", s)
	}
	if s := summaries[8]; s.NumberOfReactions != 1 || s.CurrentUserHasReaction {
		t.Fatalf("unexpected summary for 8: %+v", s)
	}
	if s, ok := summaries[9]; !ok || s.NumberOfReactions != 0 {
		t.Fatalf("expected zero summary for 9, got %+v", s)
	}

	anon, err := svc.Summaries(ctx, 0, KindComment, []uint{7})
	if err != nil || anon[7].CurrentUserHasReaction {
		t.Fatalf("anonymous viewer must not have reactions, got %+v %v", anon, err)
	}
}
