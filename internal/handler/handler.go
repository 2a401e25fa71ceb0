package handler

import (
	"github.com/chatterbox-dev/chatterbox/internal/config"
	"github.com/chatterbox-dev/chatterbox/internal/service"
	"github.com/chatterbox-dev/chatterbox/internal/sse"
)

type Handler struct {
	user       service.UserService
	connection service.ConnectionService
	post       service.PostService
	story      service.StoryService
	message    service.MessageService
	registry   *sse.Registry
	cfg        *config.Config
}

func New(
	user service.UserService,
	connection service.ConnectionService,
	post service.PostService,
	story service.StoryService,
	message service.MessageService,
	registry *sse.Registry,
	cfg *config.Config,
) *Handler {
	return &Handler{user, connection, post, story, message, registry, cfg}
}
