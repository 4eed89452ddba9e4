package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"social-app-go/internal/config"
	userdomain "social-app-go/internal/domain/user"
	"social-app-go/pkg/logger"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

type contextKey int

const userKey contextKey = iota

// Claims carries the identity issued by the external login service. Subject holds the numeric user id.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

type User struct {
	ID       uint
	Email    string
	Username string
	Name     string
}

type ProfileSaver interface {
	UpsertProfile(ctx context.Context, profile userdomain.Profile) error
}

type JWTAuth struct {
	secret   []byte
	issuer   string
	profiles ProfileSaver
	log      logger.Logger
	skipAuth bool
	mockUser User
}

func NewJWTAuth(cfg config.AuthConfig, profiles ProfileSaver, log logger.Logger) *JWTAuth {
	if log == nil {
		log = logger.Nop()
	}
	return &JWTAuth{
		secret:   []byte(cfg.JWTSecret),
		issuer:   strings.TrimSpace(cfg.JWTIssuer),
		profiles: profiles,
		log:      log.Component("auth"),
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:       cfg.MockUserID,
			Email:    strings.TrimSpace(cfg.MockUserEmail),
			Username: strings.TrimSpace(cfg.MockUserUsername),
			Name:     strings.TrimSpace(cfg.MockUserName),
		},
	}
}

// Required rejects requests without a valid bearer token.
func (a *JWTAuth) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		if err != nil {
			a.reject(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(a.attach(r.Context(), user)))
	})
}

// Optional lets anonymous requests through but still rejects a malformed or forged token.
func (a *JWTAuth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		if errors.Is(err, errMissingToken) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			a.reject(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(a.attach(r.Context(), user)))
	})
}

func (a *JWTAuth) authenticate(r *http.Request) (User, error) {
	if a.skipAuth {
		if a.mockUser.ID == 0 {
			return User{}, errors.New("auth mock user id not configured")
		}
		return a.mockUser, nil
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return User{}, errMissingToken
	}
	return a.parse(token)
}

func (a *JWTAuth) parse(raw string) (User, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, options...)
	if err != nil || !token.Valid {
		return User{}, errInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return User{}, errInvalidToken
	}

	return User{
		ID:       uint(id),
		Email:    claims.Email,
		Username: claims.Username,
		Name:     claims.Name,
	}, nil
}

func (a *JWTAuth) attach(ctx context.Context, user User) context.Context {
	if a.profiles != nil {
		profile := userdomain.Profile{ID: user.ID, Email: user.Email, Username: user.Username, Name: user.Name}
		if err := a.profiles.UpsertProfile(ctx, profile); err != nil {
			logger.FromContext(ctx, a.log).InternalError("auth: upsert profile failed", err, "user_id", user.ID)
		}
	}
	return WithUser(ctx, user)
}

func (a *JWTAuth) reject(w http.ResponseWriter, err error) {
	if !errors.Is(err, errMissingToken) && !errors.Is(err, errInvalidToken) {
		a.log.InternalError("auth: not configured", err)
		writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
		return
	}
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == 0 {
		return User{}, false
	}
	return user, true
}

// UserIDFromContext returns 0 for anonymous requests.
func UserIDFromContext(ctx context.Context) uint {
	user, _ := UserFromContext(ctx)
	return user.ID
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
