package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"
)

// mockPostStorage implements the PostStorage interface
type mockPostStorage struct {
	MockCreatePost   func(userId domain.UserId, content string, imageURLs []string, postType string) (domain.PostId, error)
	MockGetFeedPosts func(userIds []domain.UserId, limit int) ([]domain.Post, error)
	MockNetworkIds   func(id domain.UserId) ([]domain.UserId, error)
	MockToggleLike   func(postId domain.PostId, userId domain.UserId) (bool, error)
}

func (m *mockPostStorage) CreatePost(userId domain.UserId, content string, imageURLs []string, postType string) (domain.PostId, error) {
	if m.MockCreatePost != nil {
		return m.MockCreatePost(userId, content, imageURLs, postType)
	}
	return 1, nil
}

func (m *mockPostStorage) GetFeedPosts(userIds []domain.UserId, limit int) ([]domain.Post, error) {
	if m.MockGetFeedPosts != nil {
		return m.MockGetFeedPosts(userIds, limit)
	}
	return nil, nil
}

func (m *mockPostStorage) NetworkIds(id domain.UserId) ([]domain.UserId, error) {
	if m.MockNetworkIds != nil {
		return m.MockNetworkIds(id)
	}
	return []domain.UserId{id}, nil
}

func (m *mockPostStorage) ToggleLike(postId domain.PostId, userId domain.UserId) (bool, error) {
	if m.MockToggleLike != nil {
		return m.MockToggleLike(postId, userId)
	}
	return false, nil
}

func TestPostAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("text post persists sanitized content", func(t *testing.T) {
		var persisted string
		storage := &mockPostStorage{
			MockCreatePost: func(userId domain.UserId, content string, imageURLs []string, postType string) (domain.PostId, error) {
				persisted = content
				assert.Empty(t, imageURLs)
				assert.Equal(t, domain.PostTypeText, postType)
				return 1, nil
			},
		}
		svc := NewPost(storage, &mockUploader{}, 4, 40)

		_, err := svc.Add(ctx, "user_1", "<b>hello</b>", domain.PostTypeText, nil)
		require.NoError(t, err)
		assert.Equal(t, "hello", persisted)
	})

	t.Run("empty text post rejected", func(t *testing.T) {
		svc := NewPost(&mockPostStorage{}, &mockUploader{}, 4, 40)

		_, err := svc.Add(ctx, "user_1", "  ", domain.PostTypeText, nil)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 400, statusErr.StatusCode)
	})

	t.Run("image post uploads every file", func(t *testing.T) {
		uploader := &mockUploader{}
		var urls []string
		storage := &mockPostStorage{
			MockCreatePost: func(userId domain.UserId, content string, imageURLs []string, postType string) (domain.PostId, error) {
				urls = imageURLs
				return 1, nil
			},
		}
		svc := NewPost(storage, uploader, 4, 40)

		_, err := svc.Add(ctx, "user_1", "", domain.PostTypeImage, []Upload{
			{Data: bytesReader("a"), Filename: "a.png"},
			{Data: bytesReader("b"), Filename: "b.png"},
		})
		require.NoError(t, err)
		assert.Len(t, urls, 2)

		calls := uploader.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, "posts", calls[0].Folder)
		assert.Equal(t, 1280, calls[0].Width)
	})

	t.Run("image post without files rejected", func(t *testing.T) {
		svc := NewPost(&mockPostStorage{}, &mockUploader{}, 4, 40)

		_, err := svc.Add(ctx, "user_1", "", domain.PostTypeImage, nil)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 400, statusErr.StatusCode)
	})

	t.Run("too many images rejected", func(t *testing.T) {
		svc := NewPost(&mockPostStorage{}, &mockUploader{}, 2, 40)

		images := []Upload{
			{Data: bytesReader("a"), Filename: "a.png"},
			{Data: bytesReader("b"), Filename: "b.png"},
			{Data: bytesReader("c"), Filename: "c.png"},
		}
		_, err := svc.Add(ctx, "user_1", "", domain.PostTypeImage, images)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 400, statusErr.StatusCode)
	})

	t.Run("unknown post type rejected", func(t *testing.T) {
		svc := NewPost(&mockPostStorage{}, &mockUploader{}, 4, 40)

		_, err := svc.Add(ctx, "user_1", "hello", "gif", nil)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 400, statusErr.StatusCode)
	})
}

func TestPostFeed(t *testing.T) {
	storage := &mockPostStorage{
		MockNetworkIds: func(id domain.UserId) ([]domain.UserId, error) {
			assert.Equal(t, domain.UserId("user_1"), id)
			return []domain.UserId{"user_1", "user_2"}, nil
		},
		MockGetFeedPosts: func(userIds []domain.UserId, limit int) ([]domain.Post, error) {
			assert.Equal(t, []domain.UserId{"user_1", "user_2"}, userIds)
			assert.Equal(t, 40, limit)
			return []domain.Post{{Id: 2}, {Id: 1}}, nil
		},
	}
	svc := NewPost(storage, &mockUploader{}, 4, 40)

	posts, err := svc.Feed("user_1")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
