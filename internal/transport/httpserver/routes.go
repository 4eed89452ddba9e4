package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"social-app-go/internal/config"
	"social-app-go/internal/transport/httpserver/handler"
	authmw "social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	if cfg.MetricsEnabled {
		metrics := authmw.NewMetrics()
		r.Use(metrics.Middleware)
		r.Handle("/metrics", metrics.Handler())
	}

	auth := authmw.NewJWTAuth(cfg.Auth, profiles, log)

	r.Get("/api/health", handlers.Common.Health)
	r.Get("/storage/*", handlers.Common.ServeFile)

	// Reachable without a session: invitation links arrive by mail and group pages are public.
	r.Get("/group/approve-invitation/{token}", handlers.Groups.ApproveInvitation)
	r.With(auth.Optional).Get("/group/{slug}", handlers.Groups.GetGroup)

	r.Group(func(r chi.Router) {
		r.Use(auth.Required)

		r.Get("/api/auth/me", handlers.Common.AuthMe)

		r.Get("/group", handlers.Groups.ListGroups)
		r.Post("/group", handlers.Groups.CreateGroup)
		r.Put("/group/{slug}", handlers.Groups.UpdateGroup)
		r.Post("/group/update-images/{slug}", handlers.Groups.UpdateImages)
		r.Post("/group/invite/{slug}", handlers.Groups.Invite)
		r.Post("/group/join/{slug}", handlers.Groups.Join)
		r.Post("/group/process-request/{slug}", handlers.Groups.ProcessRequest)
		r.Delete("/group/remove-user/{slug}", handlers.Groups.RemoveUser)
		r.Post("/group/change-role/{slug}", handlers.Groups.ChangeRole)

		r.Get("/post", handlers.Posts.Timeline)
		r.Post("/post", handlers.Posts.CreatePost)
		r.Get("/post/{id}", handlers.Posts.GetPost)
		r.Put("/post/{id}", handlers.Posts.UpdatePost)
		r.Delete("/post/{id}", handlers.Posts.DeletePost)
		r.Get("/post/download/{attachmentId}", handlers.Posts.DownloadAttachment)
		r.Post("/post/{id}/reaction", handlers.Posts.PostReaction)
		r.Post("/post/{id}/comment", handlers.Posts.CreateComment)
		r.Put("/post/comment/{id}", handlers.Posts.UpdateComment)
		r.Delete("/post/comment/{id}", handlers.Posts.DeleteComment)
		r.Post("/post/comment/{id}/reaction", handlers.Posts.CommentReaction)

		r.Get("/notifications", handlers.Notifications.List)
		r.Post("/notifications/{id}/read", handlers.Notifications.MarkRead)
	})

	return r
}
