package service

import (
	"context"
	"fmt"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"
	"github.com/chatterbox-dev/chatterbox/internal/media"
	"github.com/chatterbox-dev/chatterbox/internal/service/utils"
)

const postImageWidth = 1280

type PostService interface {
	Add(ctx context.Context, userId domain.UserId, content, postType string, images []Upload) (domain.PostId, error)
	Feed(userId domain.UserId) ([]domain.Post, error)
	ToggleLike(postId domain.PostId, userId domain.UserId) (bool, error)
}

type PostStorage interface {
	CreatePost(userId domain.UserId, content string, imageURLs []string, postType string) (domain.PostId, error)
	GetFeedPosts(userIds []domain.UserId, limit int) ([]domain.Post, error)
	NetworkIds(id domain.UserId) ([]domain.UserId, error)
	ToggleLike(postId domain.PostId, userId domain.UserId) (bool, error)
}

type Post struct {
	storage   PostStorage
	uploader  media.Uploader
	maxImages int
	feedLimit int
}

func NewPost(storage PostStorage, uploader media.Uploader, maxImages, feedLimit int) PostService {
	return &Post{storage, uploader, maxImages, feedLimit}
}

func (s *Post) Add(ctx context.Context, userId domain.UserId, content, postType string, images []Upload) (domain.PostId, error) {
	content = utils.SanitizeText(content)

	switch postType {
	case domain.PostTypeText:
		if content == "" {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Post text is empty", StatusCode: 400}
		}
	case domain.PostTypeImage, domain.PostTypeTextWithImage:
		if len(images) == 0 {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Post has no images", StatusCode: 400}
		}
	default:
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Unknown post type", StatusCode: 400}
	}

	if len(images) > s.maxImages {
		return 0, &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("At most %d images per post", s.maxImages),
			StatusCode: 400,
		}
	}

	imageURLs := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.uploader.Upload(ctx, img.Data, img.Filename, "posts", postImageWidth)
		if err != nil {
			return 0, err
		}
		imageURLs = append(imageURLs, url)
	}

	return s.storage.CreatePost(userId, content, imageURLs, postType)
}

// Feed returns the newest posts from the caller's network: themselves plus
// everyone they follow or are connected with.
func (s *Post) Feed(userId domain.UserId) ([]domain.Post, error) {
	ids, err := s.storage.NetworkIds(userId)
	if err != nil {
		return nil, err
	}
	return s.storage.GetFeedPosts(ids, s.feedLimit)
}

func (s *Post) ToggleLike(postId domain.PostId, userId domain.UserId) (bool, error) {
	return s.storage.ToggleLike(postId, userId)
}
