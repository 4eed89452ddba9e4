package handler

import (
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	groupshandler "social-app-go/internal/transport/httpserver/handler/groups"
	notificationshandler "social-app-go/internal/transport/httpserver/handler/notifications"
	postshandler "social-app-go/internal/transport/httpserver/handler/posts"
)

type Handlers struct {
	Common        *commonhandler.Handlers
	Groups        *groupshandler.Handlers
	Posts         *postshandler.Handlers
	Notifications *notificationshandler.Handlers
}

func New(common *commonhandler.Handlers, groups *groupshandler.Handlers, posts *postshandler.Handlers, notifications *notificationshandler.Handlers) *Handlers {
	return &Handlers{
		Common:        common,
		Groups:        groups,
		Posts:         posts,
		Notifications: notifications,
	}
}
