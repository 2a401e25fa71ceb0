package setup

import (
	"github.com/chatterbox-dev/chatterbox/internal/config"
	"github.com/chatterbox-dev/chatterbox/internal/email"
	"github.com/chatterbox-dev/chatterbox/internal/handler"
	"github.com/chatterbox-dev/chatterbox/internal/logger"
	"github.com/chatterbox-dev/chatterbox/internal/media"
	"github.com/chatterbox-dev/chatterbox/internal/middleware"
	"github.com/chatterbox-dev/chatterbox/internal/relay"
	"github.com/chatterbox-dev/chatterbox/internal/service"
	"github.com/chatterbox-dev/chatterbox/internal/sse"
	"github.com/chatterbox-dev/chatterbox/internal/storage/pg"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Registry       *sse.Registry
	Relay          *relay.Relay // nil when Redis is not configured
	Notifier       *service.UnseenNotifier
	Reaper         *service.StoryReaper
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	sender := email.New(&cfg.Private.Email)
	uploader := media.NewImageKit(&cfg.Private.ImageKit)
	registry := sse.NewRegistry()

	var msgRelay *relay.Relay
	var relayPublisher service.RelayPublisher
	if cfg.Private.Redis.Addr != "" {
		msgRelay, err = relay.New(&cfg.Private.Redis, registry)
		if err != nil {
			return nil, err
		}
		relayPublisher = msgRelay
	} else {
		logger.Log.Info("redis not configured, message fan-out stays process-local")
	}

	user := service.NewUser(storage, uploader)
	connection := service.NewConnection(storage, sender,
		cfg.Public.ConnectionRequestLimit, cfg.Public.ConnectionRequestWindow, cfg.Private.Email.AppURL)
	post := service.NewPost(storage, uploader, cfg.Public.MaxPostImages, cfg.Public.FeedPageLimit)
	story := service.NewStory(storage, uploader, cfg.Public.StoryTTL)
	message := service.NewMessage(storage, uploader, registry, relayPublisher)

	h := handler.New(user, connection, post, story, message, registry, cfg)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(cfg.JwtKey()),
		Registry:       registry,
		Relay:          msgRelay,
		Notifier:       service.NewUnseenNotifier(storage, sender, cfg.Private.Email.AppURL),
		Reaper:         service.NewStoryReaper(storage, cfg.Public.StoryTTL),
	}, nil
}
