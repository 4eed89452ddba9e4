package group

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/gosimple/slug"
)

const (
	invitationTokenLength = 256
	sequentialSlugSuffix  = 20
	randomSlugAttempts    = 10
	randomSlugLength      = 6
)

// generateUniqueSlug tries name, name-2, name-3... before falling back to random suffixes.
func generateUniqueSlug(ctx context.Context, repo Repository, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "group"
	}

	for i := 1; i <= sequentialSlugSuffix; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := repo.IsSlugTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	for i := 0; i < randomSlugAttempts; i++ {
		suffix, err := generateCode(randomSlugLength, "abcdefghijkmnpqrstuvwxyz23456789")
		if err != nil {
			return "", err
		}
		candidate := base + "-" + suffix
		taken, err := repo.IsSlugTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrSlugGenerationFailed
}

func generateInvitationToken() (string, error) {
	return generateCode(invitationTokenLength, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")
}

func generateCode(length int, alphabet string) (string, error) {
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}
