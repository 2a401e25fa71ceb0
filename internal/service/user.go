package service

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"
	"github.com/chatterbox-dev/chatterbox/internal/logger"
	"github.com/chatterbox-dev/chatterbox/internal/media"
)

const (
	profilePictureWidth = 512
	coverPhotoWidth     = 1280
)

// Upload is a pending file handed from the multipart layer to a service.
type Upload struct {
	Data     io.Reader
	Filename string
}

type UserService interface {
	Get(id domain.UserId) (domain.User, error)
	UpdateProfile(ctx context.Context, id domain.UserId, upd domain.ProfileUpdate, profile, cover *Upload) (domain.User, error)
	Discover(callerId domain.UserId, input string) ([]domain.User, error)
	Follow(followerId, followingId domain.UserId) error
	Unfollow(followerId, followingId domain.UserId) error

	SyncUpsert(id, email, fullName, profilePicture string) error
	SyncDelete(id domain.UserId) error
}

type UserStorage interface {
	GetUser(id domain.UserId) (domain.User, error)
	UpsertUser(u domain.User) error
	DeleteUser(id domain.UserId) error
	UsernameTaken(username string, excludeId domain.UserId) (bool, error)
	UpdateProfile(id domain.UserId, upd domain.ProfileUpdate) (domain.User, error)
	SearchUsers(input string, excludeId domain.UserId) ([]domain.User, error)
	Follow(followerId, followingId domain.UserId) error
	Unfollow(followerId, followingId domain.UserId) error
}

type User struct {
	storage  UserStorage
	uploader media.Uploader
}

func NewUser(storage UserStorage, uploader media.Uploader) UserService {
	return &User{storage, uploader}
}

func (s *User) Get(id domain.UserId) (domain.User, error) {
	return s.storage.GetUser(id)
}

// UpdateProfile applies the requested field changes. A username already taken
// by someone else is silently dropped and the old one kept; profile and cover
// images go through the media collaborator first, and an upload failure aborts
// the whole update.
func (s *User) UpdateProfile(ctx context.Context, id domain.UserId, upd domain.ProfileUpdate, profile, cover *Upload) (domain.User, error) {
	if upd.Username != nil {
		taken, err := s.storage.UsernameTaken(*upd.Username, id)
		if err != nil {
			return domain.User{}, err
		}
		if taken {
			upd.Username = nil
		}
	}

	if profile != nil {
		url, err := s.uploader.Upload(ctx, profile.Data, profile.Filename, "avatars", profilePictureWidth)
		if err != nil {
			return domain.User{}, err
		}
		upd.ProfilePicture = url
	}
	if cover != nil {
		url, err := s.uploader.Upload(ctx, cover.Data, cover.Filename, "covers", coverPhotoWidth)
		if err != nil {
			return domain.User{}, err
		}
		upd.CoverPhoto = url
	}

	return s.storage.UpdateProfile(id, upd)
}

func (s *User) Discover(callerId domain.UserId, input string) ([]domain.User, error) {
	return s.storage.SearchUsers(input, callerId)
}

func (s *User) Follow(followerId, followingId domain.UserId) error {
	if followerId == followingId {
		return &internal_errors.ErrorWithStatusCode{Message: "You cannot follow yourself", StatusCode: 400}
	}
	if _, err := s.storage.GetUser(followingId); err != nil {
		return err
	}
	return s.storage.Follow(followerId, followingId)
}

func (s *User) Unfollow(followerId, followingId domain.UserId) error {
	if followerId == followingId {
		return &internal_errors.ErrorWithStatusCode{Message: "You cannot unfollow yourself", StatusCode: 400}
	}
	return s.storage.Unfollow(followerId, followingId)
}

// SyncUpsert mirrors an auth-provider user into the local users table. The
// username comes from the email local part; on collision a random numeric
// suffix is appended.
func (s *User) SyncUpsert(id, email, fullName, profilePicture string) error {
	if id == "" || email == "" {
		return &internal_errors.ErrorWithStatusCode{Message: "id and email are required", StatusCode: 400}
	}

	username := strings.SplitN(email, "@", 2)[0]
	if username == "" {
		username = fmt.Sprintf("user_%d", rand.Intn(10000))
	}
	base := username
	for attempts := 0; attempts < 5; attempts++ {
		taken, err := s.storage.UsernameTaken(username, id)
		if err != nil {
			return err
		}
		if !taken {
			break
		}
		username = fmt.Sprintf("%s%d", base, rand.Intn(10000))
	}

	err := s.storage.UpsertUser(domain.User{
		Id:             id,
		Email:          email,
		FullName:       fullName,
		Username:       username,
		ProfilePicture: profilePicture,
	})
	if err != nil {
		return err
	}
	logger.Log.Info("user synced from auth provider", "user_id", id)
	return nil
}

func (s *User) SyncDelete(id domain.UserId) error {
	if id == "" {
		return &internal_errors.ErrorWithStatusCode{Message: "id is required", StatusCode: 400}
	}
	return s.storage.DeleteUser(id)
}
