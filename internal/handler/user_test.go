package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatterbox-dev/chatterbox/internal/api"
	"github.com/chatterbox-dev/chatterbox/internal/domain"
	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"
	"github.com/chatterbox-dev/chatterbox/internal/service"
)

// MockUserService implements the service.UserService interface
type MockUserService struct {
	MockGet           func(id domain.UserId) (domain.User, error)
	MockUpdateProfile func(ctx context.Context, id domain.UserId, upd domain.ProfileUpdate, profile, cover *service.Upload) (domain.User, error)
	MockDiscover      func(callerId domain.UserId, input string) ([]domain.User, error)
	MockFollow        func(followerId, followingId domain.UserId) error
	MockUnfollow      func(followerId, followingId domain.UserId) error
	MockSyncUpsert    func(id, email, fullName, profilePicture string) error
	MockSyncDelete    func(id domain.UserId) error
}

func (m *MockUserService) Get(id domain.UserId) (domain.User, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.User{}, nil
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id domain.UserId, upd domain.ProfileUpdate, profile, cover *service.Upload) (domain.User, error) {
	if m.MockUpdateProfile != nil {
		return m.MockUpdateProfile(ctx, id, upd, profile, cover)
	}
	return domain.User{}, nil
}

func (m *MockUserService) Discover(callerId domain.UserId, input string) ([]domain.User, error) {
	if m.MockDiscover != nil {
		return m.MockDiscover(callerId, input)
	}
	return nil, nil
}

func (m *MockUserService) Follow(followerId, followingId domain.UserId) error {
	if m.MockFollow != nil {
		return m.MockFollow(followerId, followingId)
	}
	return nil
}

func (m *MockUserService) Unfollow(followerId, followingId domain.UserId) error {
	if m.MockUnfollow != nil {
		return m.MockUnfollow(followerId, followingId)
	}
	return nil
}

func (m *MockUserService) SyncUpsert(id, email, fullName, profilePicture string) error {
	if m.MockSyncUpsert != nil {
		return m.MockSyncUpsert(id, email, fullName, profilePicture)
	}
	return nil
}

func (m *MockUserService) SyncDelete(id domain.UserId) error {
	if m.MockSyncDelete != nil {
		return m.MockSyncDelete(id)
	}
	return nil
}

func setupUserTestHandler(userService service.UserService) (*Handler, *mux.Router) {
	h := &Handler{user: userService}
	router := mux.NewRouter()
	router.HandleFunc("/user/data", h.GetUserData).Methods(http.MethodGet)
	router.HandleFunc("/user/update", h.UpdateProfile).Methods(http.MethodPost)
	router.HandleFunc("/user/discover", h.DiscoverUsers).Methods(http.MethodPost)
	router.HandleFunc("/user/follow", h.FollowUser).Methods(http.MethodPost)
	router.HandleFunc("/user/unfollow", h.UnfollowUser).Methods(http.MethodPost)
	return h, router
}

func TestGetUserDataHandler(t *testing.T) {
	mockService := &MockUserService{
		MockGet: func(id domain.UserId) (domain.User, error) {
			assert.Equal(t, domain.UserId("user_1"), id)
			return domain.User{Id: id, Username: "alice"}, nil
		},
	}
	_, router := setupUserTestHandler(mockService)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/user/data", nil), "user_1")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp api.UserResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestGetUserDataHandlerNotFound(t *testing.T) {
	mockService := &MockUserService{
		MockGet: func(id domain.UserId) (domain.User, error) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "user not found", StatusCode: 404}
		},
	}
	_, router := setupUserTestHandler(mockService)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/user/data", nil), "user_1")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateProfileHandler(t *testing.T) {
	t.Run("fields and files forwarded", func(t *testing.T) {
		mockService := &MockUserService{
			MockUpdateProfile: func(ctx context.Context, id domain.UserId, upd domain.ProfileUpdate, profile, cover *service.Upload) (domain.User, error) {
				assert.Equal(t, domain.UserId("user_1"), id)
				require.NotNil(t, upd.Username)
				assert.Equal(t, "new_name", *upd.Username)
				assert.Nil(t, upd.Bio)
				require.NotNil(t, profile)
				assert.Equal(t, "avatar.png", profile.Filename)
				assert.Nil(t, cover)
				return domain.User{Id: id, Username: "new_name"}, nil
			},
		}
		_, router := setupUserTestHandler(mockService)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("json", `{"username": "new_name"}`))
		part, err := mw.CreateFormFile("profile", "avatar.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/user/update", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req = withIdentity(req, "user_1")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.UserResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "new_name", resp.User.Username)
	})

	t.Run("no files is fine", func(t *testing.T) {
		mockService := &MockUserService{
			MockUpdateProfile: func(ctx context.Context, id domain.UserId, upd domain.ProfileUpdate, profile, cover *service.Upload) (domain.User, error) {
				assert.Nil(t, profile)
				assert.Nil(t, cover)
				return domain.User{Id: id}, nil
			},
		}
		_, router := setupUserTestHandler(mockService)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("json", `{"bio": "hello"}`))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/user/update", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req = withIdentity(req, "user_1")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestDiscoverUsersHandler(t *testing.T) {
	t.Run("successful search", func(t *testing.T) {
		mockService := &MockUserService{
			MockDiscover: func(callerId domain.UserId, input string) ([]domain.User, error) {
				assert.Equal(t, domain.UserId("user_1"), callerId)
				assert.Equal(t, "alice", input)
				return []domain.User{{Id: "user_2", Username: "alice"}}, nil
			},
		}
		_, router := setupUserTestHandler(mockService)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/user/discover", bytes.NewBufferString(`{"input": "alice"}`)), "user_1")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.UsersResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Users, 1)
	})

	t.Run("missing input", func(t *testing.T) {
		_, router := setupUserTestHandler(&MockUserService{})

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/user/discover", bytes.NewBufferString(`{}`)), "user_1")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestFollowUserHandler(t *testing.T) {
	t.Run("successful follow", func(t *testing.T) {
		mockService := &MockUserService{
			MockFollow: func(followerId, followingId domain.UserId) error {
				assert.Equal(t, domain.UserId("user_1"), followerId)
				assert.Equal(t, domain.UserId("user_2"), followingId)
				return nil
			},
		}
		_, router := setupUserTestHandler(mockService)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/user/follow", bytes.NewBufferString(`{"id": "user_2"}`)), "user_1")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("self follow rejected by service", func(t *testing.T) {
		mockService := &MockUserService{
			MockFollow: func(followerId, followingId domain.UserId) error {
				return &internal_errors.ErrorWithStatusCode{Message: "You cannot follow yourself", StatusCode: 400}
			},
		}
		_, router := setupUserTestHandler(mockService)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/user/follow", bytes.NewBufferString(`{"id": "user_1"}`)), "user_1")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUnfollowUserHandler(t *testing.T) {
	called := false
	mockService := &MockUserService{
		MockUnfollow: func(followerId, followingId domain.UserId) error {
			called = true
			return nil
		},
	}
	_, router := setupUserTestHandler(mockService)

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/user/unfollow", bytes.NewBufferString(`{"id": "user_2"}`)), "user_1")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, called)
}
