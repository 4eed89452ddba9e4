package user

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile keeps the users table in step with the identity in the access token.
func (s *Service) UpsertProfile(ctx context.Context, profile Profile) error {
	if profile.ID == 0 {
		return fmt.Errorf("user id is required")
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	username := strings.TrimSpace(profile.Username)
	if username == "" {
		username = fallbackUsername(email, profile.ID)
	}
	if email == "" {
		email = fmt.Sprintf("user-%d@users.invalid", profile.ID)
	}

	return s.repo.UpsertProfile(ctx, &User{
		ID:       profile.ID,
		Name:     strings.TrimSpace(profile.Name),
		Username: username,
		Email:    email,
	})
}

func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByEmailOrUsername matches the email case-insensitively or the username exactly.
func (s *Service) FindByEmailOrUsername(ctx context.Context, value string) (*User, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrUserNotFound
	}
	return s.repo.FindByEmailOrUsername(ctx, value)
}

func (s *Service) ListByIDs(ctx context.Context, ids []uint) (map[uint]User, error) {
	result := make(map[uint]User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	users, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func fallbackUsername(email string, id uint) string {
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return fmt.Sprintf("%s-%d", local, id)
	}
	return fmt.Sprintf("user-%d", id)
}
