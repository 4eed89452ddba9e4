package common

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	userdomain "social-app-go/internal/domain/user"
	"social-app-go/internal/storage"
	"social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/pkg/logger"
)

// publicRoots are the storage prefixes served without a membership check.
var publicRoots = []string{"group-", "avatars/"}

type Handlers struct {
	Users *userdomain.Service
	Files storage.FileStore
	log   logger.Logger
}

func New(users *userdomain.Service, files storage.FileStore, log logger.Logger) *Handlers {
	return &Handlers{
		Users: users,
		Files: files,
		log:   log,
	}
}

// FileURLs turns a storage key into a public URL.
type FileURLs interface {
	URL(key string) string
}

type UserResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

type meResponse struct {
	UserResponse
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserResponse(user userdomain.User, urls FileURLs) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		AvatarURL: PublicURL(urls, user.AvatarPath),
	}
}

func PublicURL(urls FileURLs, key *string) *string {
	if key == nil || *key == "" || urls == nil {
		return nil
	}
	url := urls.URL(*key)
	return &url
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	authUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteUnauthorized(w)
		return
	}

	user, err := h.Users.GetByID(r.Context(), authUser.ID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			h.log.BusinessError("auth.me: user not found", err, "user_id", authUser.ID)
			WriteError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("auth.me: get user failed", err, "user_id", authUser.ID)
		WriteInternal(w)
		return
	}

	WriteJSON(w, http.StatusOK, meResponse{
		UserResponse: ToUserResponse(*user, h.Files),
		Email:        user.Email,
		CreatedAt:    user.CreatedAt,
	})
}

// ServeFile streams public files such as group covers. Attachments go through the post download route.
func (h *Handlers) ServeFile(w http.ResponseWriter, r *http.Request) {
	key, err := storage.CleanKey(chi.URLParam(r, "*"))
	if err != nil || !isPublicKey(key) {
		WriteError(w, http.StatusNotFound, "file_not_found", "file not found")
		return
	}

	body, object, err := h.Files.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "file_not_found", "file not found")
			return
		}
		h.log.InternalError("storage.serve: open failed", err, "key", key)
		WriteInternal(w)
		return
	}
	defer body.Close()

	if object.ContentType != "" {
		w.Header().Set("Content-Type", object.ContentType)
	}
	if object.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(object.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.log.Warn("storage.serve: copy interrupted", "key", key, "err", err)
	}
}

func isPublicKey(key string) bool {
	for _, root := range publicRoots {
		if strings.HasPrefix(key, root) {
			return true
		}
	}
	return false
}
