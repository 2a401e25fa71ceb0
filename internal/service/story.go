package service

import (
	"context"
	"time"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"
	"github.com/chatterbox-dev/chatterbox/internal/media"
	"github.com/chatterbox-dev/chatterbox/internal/service/utils"
)

type StoryService interface {
	Create(ctx context.Context, userId domain.UserId, content, mediaType, backgroundColor string, mediaFile *Upload) (domain.StoryId, error)
	GetFeed(userId domain.UserId) ([]domain.Story, error)
}

type StoryStorage interface {
	CreateStory(userId domain.UserId, content, mediaURL, mediaType, backgroundColor string) (domain.StoryId, error)
	GetStories(userIds []domain.UserId, cutoff time.Time) ([]domain.Story, error)
	NetworkIds(id domain.UserId) ([]domain.UserId, error)
}

type Story struct {
	storage  StoryStorage
	uploader media.Uploader
	ttl      time.Duration
}

func NewStory(storage StoryStorage, uploader media.Uploader, ttl time.Duration) StoryService {
	return &Story{storage, uploader, ttl}
}

func (s *Story) Create(ctx context.Context, userId domain.UserId, content, mediaType, backgroundColor string, mediaFile *Upload) (domain.StoryId, error) {
	content = utils.SanitizeText(content)

	var mediaURL string
	switch mediaType {
	case domain.StoryMediaText:
		if content == "" {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Story text is empty", StatusCode: 400}
		}
	case domain.StoryMediaImage, domain.StoryMediaVideo:
		if mediaFile == nil {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Story media is missing", StatusCode: 400}
		}
		// Stories are served untransformed; the viewer scales client-side.
		url, err := s.uploader.Upload(ctx, mediaFile.Data, mediaFile.Filename, "stories", 0)
		if err != nil {
			return 0, err
		}
		mediaURL = url
	default:
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Unknown story media type", StatusCode: 400}
	}

	return s.storage.CreateStory(userId, content, mediaURL, mediaType, backgroundColor)
}

// GetFeed returns the still-live stories of the caller's network, newest first.
func (s *Story) GetFeed(userId domain.UserId) ([]domain.Story, error) {
	ids, err := s.storage.NetworkIds(userId)
	if err != nil {
		return nil, err
	}
	return s.storage.GetStories(ids, time.Now().Add(-s.ttl))
}
