package reaction

import (
	"context"
	"errors"
	"strings"

	"social-app-go/internal/domain/validation"
)

var allowedTypes = map[string]struct{}{
	TypeLike:  {},
	TypeLove:  {},
	TypeHaha:  {},
	TypeWow:   {},
	TypeSad:   {},
	TypeAngry: {},
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Toggle removes the actor's reaction on target if there is one, whatever its type,
// and adds a reaction of reactionType otherwise. Switching from one type to another
// therefore takes two calls.
func (s *Service) Toggle(ctx context.Context, actorID uint, target Target, reactionType string) (ToggleResult, error) {
	if !target.valid() {
		return ToggleResult{}, ErrInvalidTarget
	}
	reactionType, err := normalizeType(reactionType)
	if err != nil {
		return ToggleResult{}, err
	}

	var result ToggleResult
	existing, err := s.repo.Find(ctx, actorID, target)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return ToggleResult{}, err
		}
		result.HadNoReactionBefore = false
		result.CurrentUserHasReaction = false
	case errors.Is(err, ErrReactionNotFound):
		err := s.repo.Create(ctx, &Reaction{
			Type:       reactionType,
			UserID:     actorID,
			TargetType: target.Kind(),
			TargetID:   target.ID(),
		})
		// A concurrent click may have inserted the same row first; either way the user now has a reaction.
		if err != nil && !errors.Is(err, ErrDuplicateReaction) {
			return ToggleResult{}, err
		}
		result.HadNoReactionBefore = true
		result.CurrentUserHasReaction = true
	default:
		return ToggleResult{}, err
	}

	result.NumberOfReactions, err = s.repo.Count(ctx, target)
	if err != nil {
		return ToggleResult{}, err
	}
	return result, nil
}

// Summaries returns the global count and the actor's own flag for each id of kind.
func (s *Service) Summaries(ctx context.Context, actorID uint, kind Kind, ids []uint) (map[uint]Summary, error) {
	result := make(map[uint]Summary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	counts, err := s.repo.CountByTargets(ctx, kind, ids)
	if err != nil {
		return nil, err
	}

	reacted := map[uint]bool{}
	if actorID != 0 {
		reacted, err = s.repo.ReactedTargets(ctx, actorID, kind, ids)
		if err != nil {
			return nil, err
		}
	}

	for _, id := range ids {
		result[id] = Summary{
			NumberOfReactions:      counts[id],
			CurrentUserHasReaction: reacted[id],
		}
	}
	return result, nil
}

func normalizeType(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return TypeLike, nil
	}
	if _, ok := allowedTypes[value]; !ok {
		return "", validation.Field("reaction", "The selected reaction is invalid.")
	}
	return value, nil
}
