package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"
)

// mockStoryStorage implements the StoryStorage and ReaperStorage interfaces
type mockStoryStorage struct {
	MockCreateStory         func(userId domain.UserId, content, mediaURL, mediaType, backgroundColor string) (domain.StoryId, error)
	MockGetStories          func(userIds []domain.UserId, cutoff time.Time) ([]domain.Story, error)
	MockNetworkIds          func(id domain.UserId) ([]domain.UserId, error)
	MockDeleteExpiredStories func(cutoff time.Time) (int64, error)
}

func (m *mockStoryStorage) CreateStory(userId domain.UserId, content, mediaURL, mediaType, backgroundColor string) (domain.StoryId, error) {
	if m.MockCreateStory != nil {
		return m.MockCreateStory(userId, content, mediaURL, mediaType, backgroundColor)
	}
	return 1, nil
}

func (m *mockStoryStorage) GetStories(userIds []domain.UserId, cutoff time.Time) ([]domain.Story, error) {
	if m.MockGetStories != nil {
		return m.MockGetStories(userIds, cutoff)
	}
	return nil, nil
}

func (m *mockStoryStorage) NetworkIds(id domain.UserId) ([]domain.UserId, error) {
	if m.MockNetworkIds != nil {
		return m.MockNetworkIds(id)
	}
	return []domain.UserId{id}, nil
}

func (m *mockStoryStorage) DeleteExpiredStories(cutoff time.Time) (int64, error) {
	if m.MockDeleteExpiredStories != nil {
		return m.MockDeleteExpiredStories(cutoff)
	}
	return 0, nil
}

func TestStoryCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("text story needs content", func(t *testing.T) {
		svc := NewStory(&mockStoryStorage{}, &mockUploader{}, 24*time.Hour)

		_, err := svc.Create(ctx, "user_1", "", domain.StoryMediaText, "#000", nil)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 400, statusErr.StatusCode)
	})

	t.Run("text story persists background color", func(t *testing.T) {
		var savedColor string
		storage := &mockStoryStorage{
			MockCreateStory: func(userId domain.UserId, content, mediaURL, mediaType, backgroundColor string) (domain.StoryId, error) {
				savedColor = backgroundColor
				assert.Empty(t, mediaURL)
				return 1, nil
			},
		}
		svc := NewStory(storage, &mockUploader{}, 24*time.Hour)

		_, err := svc.Create(ctx, "user_1", "good morning", domain.StoryMediaText, "#336699", nil)
		require.NoError(t, err)
		assert.Equal(t, "#336699", savedColor)
	})

	t.Run("image story uploads untransformed", func(t *testing.T) {
		uploader := &mockUploader{}
		var savedURL string
		storage := &mockStoryStorage{
			MockCreateStory: func(userId domain.UserId, content, mediaURL, mediaType, backgroundColor string) (domain.StoryId, error) {
				savedURL = mediaURL
				return 1, nil
			},
		}
		svc := NewStory(storage, uploader, 24*time.Hour)

		_, err := svc.Create(ctx, "user_1", "", domain.StoryMediaImage, "", &Upload{Data: bytesReader("jpg"), Filename: "s.jpg"})
		require.NoError(t, err)
		assert.NotEmpty(t, savedURL)

		calls := uploader.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "stories", calls[0].Folder)
		assert.Equal(t, 0, calls[0].Width)
	})

	t.Run("media story without file rejected", func(t *testing.T) {
		svc := NewStory(&mockStoryStorage{}, &mockUploader{}, 24*time.Hour)

		_, err := svc.Create(ctx, "user_1", "", domain.StoryMediaVideo, "", nil)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 400, statusErr.StatusCode)
	})

	t.Run("unknown media type rejected", func(t *testing.T) {
		svc := NewStory(&mockStoryStorage{}, &mockUploader{}, 24*time.Hour)

		_, err := svc.Create(ctx, "user_1", "x", "audio", "", nil)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 400, statusErr.StatusCode)
	})
}

func TestStoryGetFeed(t *testing.T) {
	ttl := 24 * time.Hour
	storage := &mockStoryStorage{
		MockNetworkIds: func(id domain.UserId) ([]domain.UserId, error) {
			return []domain.UserId{"user_1", "user_2"}, nil
		},
		MockGetStories: func(userIds []domain.UserId, cutoff time.Time) ([]domain.Story, error) {
			assert.WithinDuration(t, time.Now().Add(-ttl), cutoff, time.Minute)
			return []domain.Story{{Id: 1}}, nil
		},
	}
	svc := NewStory(storage, &mockUploader{}, ttl)

	stories, err := svc.GetFeed("user_1")
	require.NoError(t, err)
	assert.Len(t, stories, 1)
}

func TestStoryReaper(t *testing.T) {
	t.Run("reaps with ttl cutoff", func(t *testing.T) {
		ttl := 24 * time.Hour
		var gotCutoff time.Time
		storage := &mockStoryStorage{
			MockDeleteExpiredStories: func(cutoff time.Time) (int64, error) {
				gotCutoff = cutoff
				return 3, nil
			},
		}
		reaper := NewStoryReaper(storage, ttl)

		require.NoError(t, reaper.RunOnce())
		assert.WithinDuration(t, time.Now().Add(-ttl), gotCutoff, time.Minute)
		assert.Equal(t, int64(3), reaper.LastReapStats().StoriesDeleted)
	})

	t.Run("periodic run until cancelled", func(t *testing.T) {
		ran := make(chan struct{}, 1)
		storage := &mockStoryStorage{
			MockDeleteExpiredStories: func(cutoff time.Time) (int64, error) {
				select {
				case ran <- struct{}{}:
				default:
				}
				return 0, nil
			},
		}
		reaper := NewStoryReaper(storage, time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		reaper.Start(ctx, 20*time.Millisecond)

		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("reaper never ran")
		}
		cancel()
	})
}
