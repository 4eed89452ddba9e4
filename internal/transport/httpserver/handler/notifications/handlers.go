package notifications

import (
	"errors"
	"net/http"
	"time"

	notificationdomain "social-app-go/internal/domain/notification"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/pkg/logger"
)

type Handlers struct {
	Notifications *notificationdomain.Service
	log           logger.Logger
}

func New(notifications *notificationdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Notifications: notifications,
		log:           log,
	}
}

type notificationResponse struct {
	ID        uint       `json:"id"`
	Kind      string     `json:"kind"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	ActionURL string     `json:"action_url"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type notificationListResponse struct {
	Items  []notificationResponse `json:"items"`
	Unread int                    `json:"unread"`
}

func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}

	items, err := h.Notifications.List(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("notifications.list: list failed", err, "user_id", user.ID)
		commonhandler.WriteInternal(w)
		return
	}

	resp := notificationListResponse{Items: make([]notificationResponse, 0, len(items))}
	for _, n := range items {
		if n.ReadAt == nil {
			resp.Unread++
		}
		resp.Items = append(resp.Items, notificationResponse{
			ID:        n.ID,
			Kind:      n.Kind,
			Subject:   n.Subject,
			Body:      n.Body,
			ActionURL: n.ActionURL,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}
	commonhandler.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	id, ok := commonhandler.URLParamID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Notifications.MarkRead(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, notificationdomain.ErrNotificationNotFound) {
			h.log.BusinessError("notifications.mark_read: not found", err, "user_id", user.ID, "notification_id", id)
			commonhandler.WriteError(w, http.StatusNotFound, "notification_not_found", "notification not found")
			return
		}
		h.log.InternalError("notifications.mark_read: failed", err, "user_id", user.ID, "notification_id", id)
		commonhandler.WriteInternal(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
