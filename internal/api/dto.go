package api

import "github.com/chatterbox-dev/chatterbox/internal/domain"

// Request DTOs. Multipart endpoints carry these as the "json" form field.

type SendMessageRequest struct {
	ToUserId string `json:"to_user_id" validate:"required"`
	Text     string `json:"text,omitempty"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

type DiscoverRequest struct {
	Input string `json:"input" validate:"required"`
}

type TargetUserRequest struct {
	Id string `json:"id" validate:"required"`
}

type ProfileRequest struct {
	ProfileId string `json:"profileId" validate:"required"`
}

type AddPostRequest struct {
	Content  string `json:"content,omitempty"`
	PostType string `json:"post_type" validate:"required,oneof=text image text_with_image"`
}

type LikePostRequest struct {
	PostId domain.PostId `json:"postId" validate:"required"`
}

type CreateStoryRequest struct {
	Content         string `json:"content,omitempty"`
	MediaType       string `json:"media_type" validate:"required,oneof=text image video"`
	BackgroundColor string `json:"background_color,omitempty"`
}

// Response envelope. Per the API contract every response carries an explicit
// success flag; transport status codes are set as well but clients key off the flag.

type Response struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"-"`
}

type MessageResponse struct {
	Success bool            `json:"success"`
	Message *domain.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type MessagesResponse struct {
	Success  bool             `json:"success"`
	Messages []domain.Message `json:"messages"`
}

type UserResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

type UsersResponse struct {
	Success bool          `json:"success"`
	Users   []domain.User `json:"users"`
}

type ConnectionsResponse struct {
	Success            bool          `json:"success"`
	Connections        []domain.User `json:"connections"`
	Followers          []domain.User `json:"followers"`
	Following          []domain.User `json:"following"`
	PendingConnections []domain.User `json:"pendingConnections"`
}

type ProfileResponse struct {
	Success bool          `json:"success"`
	Profile *domain.User  `json:"profile,omitempty"`
	Posts   []domain.Post `json:"posts"`
}

type PostsResponse struct {
	Success bool          `json:"success"`
	Posts   []domain.Post `json:"posts"`
}

type StoriesResponse struct {
	Success bool           `json:"success"`
	Stories []domain.Story `json:"stories"`
}
