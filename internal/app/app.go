package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-multierror"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"social-app-go/internal/config"
	"social-app-go/internal/db"
	commentdomain "social-app-go/internal/domain/comment"
	groupdomain "social-app-go/internal/domain/group"
	notificationdomain "social-app-go/internal/domain/notification"
	postdomain "social-app-go/internal/domain/post"
	reactiondomain "social-app-go/internal/domain/reaction"
	userdomain "social-app-go/internal/domain/user"
	"social-app-go/internal/repository/inmemory"
	commentrepo "social-app-go/internal/repository/postgres/comment"
	grouprepo "social-app-go/internal/repository/postgres/group"
	notificationrepo "social-app-go/internal/repository/postgres/notification"
	postrepo "social-app-go/internal/repository/postgres/post"
	reactionrepo "social-app-go/internal/repository/postgres/reaction"
	userrepo "social-app-go/internal/repository/postgres/user"
	rediscache "social-app-go/internal/repository/redis"
	"social-app-go/internal/storage"
	"social-app-go/internal/transport/httpserver"
	"social-app-go/internal/transport/httpserver/handler"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	groupshandler "social-app-go/internal/transport/httpserver/handler/groups"
	notificationshandler "social-app-go/internal/transport/httpserver/handler/notifications"
	postshandler "social-app-go/internal/transport/httpserver/handler/posts"
	"social-app-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
	log        logger.Logger
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg, log)
}

// NewWithConfig wires every component from an already loaded configuration.
func NewWithConfig(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	application := &App{cfg: cfg, db: dbConn, log: log}

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(cfg.DB.MigrateURL(), log); err != nil {
			_ = application.Close()
			return nil, err
		}
	}

	log.Info("app: initializing storage", "driver", cfg.Storage.Driver)
	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		_ = application.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	groupCache, err := application.newGroupCache(ctx)
	if err != nil {
		_ = application.Close()
		return nil, err
	}

	userService := userdomain.NewService(userrepo.NewPostgres(dbConn))
	notificationService := notificationdomain.NewService(notificationrepo.NewPostgres(dbConn), log)
	groupService := groupdomain.NewServiceWithConfig(
		grouprepo.NewPostgres(dbConn),
		userService,
		notificationService,
		storage.NewImageStore(files, cfg.Uploads.MaxImageBytes),
		log,
		groupdomain.Config{
			InvitationTTL: cfg.Groups.InvitationTTL,
			AppURL:        cfg.AppURL,
			CacheTTL:      cfg.Cache.TTL,
		},
	).WithCache(groupCache)

	reactionService := reactiondomain.NewService(reactionrepo.NewPostgres(dbConn))
	commentRepo := commentrepo.NewPostgres(dbConn)
	postService := postdomain.NewServiceWithLimits(
		postrepo.NewPostgres(dbConn),
		commentRepo,
		groupService,
		reactionService,
		files,
		log,
		postdomain.Limits{
			MaxAttachments:    cfg.Uploads.MaxAttachments,
			MaxTotalBytes:     cfg.Uploads.MaxTotalBytes,
			TimelinePageSize:  cfg.Uploads.TimelinePageSize,
			GroupFeedPageSize: cfg.Groups.FeedPageSize,
		},
	)
	commentService := commentdomain.NewService(commentRepo, postService, reactionService)

	log.Info("app: initializing router")
	handlers := handler.New(
		commonhandler.New(userService, files, log),
		groupshandler.New(groupService, postService, files, cfg.Uploads.MultipartMemBytes, log),
		postshandler.New(postService, commentService, files, cfg.Uploads.MultipartMemBytes, log),
		notificationshandler.New(notificationService, log),
	)
	router := httpserver.NewRouter(cfg, handlers, userService, log)

	log.Info("app: initializing http server")
	application.httpServer = httpserver.New(cfg, router)
	return application, nil
}

func (a *App) newGroupCache(ctx context.Context) (groupdomain.Cache, error) {
	switch a.cfg.Cache.Driver {
	case "redis":
		a.log.Info("app: connecting to redis", "addr", a.cfg.Cache.RedisAddr)
		client, err := rediscache.NewClient(ctx, a.cfg.Cache.RedisAddr, a.cfg.Cache.RedisPassword, a.cfg.Cache.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.redis = client
		return rediscache.NewGroupCache(client, a.log), nil
	case "memory", "":
		return inmemory.NewGroupCache(a.cfg.Cache.MaxEntries), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", a.cfg.Cache.Driver)
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var result *multierror.Error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("close db: %w", err))
		}
	}
	return result.ErrorOrNil()
}
