package service

import (
	"fmt"
	"time"

	"github.com/chatterbox-dev/chatterbox/internal/api"
	"github.com/chatterbox-dev/chatterbox/internal/domain"
	"github.com/chatterbox-dev/chatterbox/internal/email"
	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"
	"github.com/chatterbox-dev/chatterbox/internal/logger"
)

type ConnectionService interface {
	SendRequest(fromUserId, toUserId domain.UserId) error
	Accept(userId, requesterId domain.UserId) error
	GetConnections(userId domain.UserId) (*api.ConnectionsResponse, error)
	GetProfile(profileId domain.UserId) (domain.User, []domain.Post, error)
}

type ConnectionStorage interface {
	GetUser(id domain.UserId) (domain.User, error)
	CountRecentRequests(fromUserId domain.UserId, since time.Time) (int, error)
	GetConnectionBetween(a, b domain.UserId) (*domain.Connection, error)
	CreateConnectionRequest(fromUserId, toUserId domain.UserId) (domain.ConnectionId, error)
	AcceptConnection(requesterId, userId domain.UserId) error
	GetPendingRequesters(userId domain.UserId) ([]domain.User, error)
	GetConnectedUsers(id domain.UserId) ([]domain.User, error)
	GetFollowers(id domain.UserId) ([]domain.User, error)
	GetFollowing(id domain.UserId) ([]domain.User, error)
	GetUserPosts(userId domain.UserId) ([]domain.Post, error)
}

type Connection struct {
	storage       ConnectionStorage
	email         email.Sender
	requestLimit  int
	requestWindow time.Duration
	appURL        string
}

func NewConnection(storage ConnectionStorage, sender email.Sender, requestLimit int, requestWindow time.Duration, appURL string) ConnectionService {
	return &Connection{storage, sender, requestLimit, requestWindow, appURL}
}

// SendRequest creates a pending connection request and emails the recipient.
// The email is best-effort; its failure never fails the request.
func (s *Connection) SendRequest(fromUserId, toUserId domain.UserId) error {
	if fromUserId == toUserId {
		return &internal_errors.ErrorWithStatusCode{Message: "You cannot send connection request to yourself", StatusCode: 400}
	}

	since := time.Now().Add(-s.requestWindow)
	sent, err := s.storage.CountRecentRequests(fromUserId, since)
	if err != nil {
		return err
	}
	if sent >= s.requestLimit {
		return &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("You have sent more than %d connection requests recently", s.requestLimit),
			StatusCode: 429,
		}
	}

	existing, err := s.storage.GetConnectionBetween(fromUserId, toUserId)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Status == domain.ConnectionAccepted {
			return &internal_errors.ErrorWithStatusCode{Message: "You are already connected with this user", StatusCode: 400}
		}
		return &internal_errors.ErrorWithStatusCode{Message: "Connection request pending", StatusCode: 400}
	}

	recipient, err := s.storage.GetUser(toUserId)
	if err != nil {
		return err
	}
	requester, err := s.storage.GetUser(fromUserId)
	if err != nil {
		return err
	}

	if _, err := s.storage.CreateConnectionRequest(fromUserId, toUserId); err != nil {
		return err
	}

	go s.notifyRecipient(recipient, requester)

	return nil
}

func (s *Connection) notifyRecipient(recipient, requester domain.User) {
	subject := "New connection request"
	body := fmt.Sprintf("Hi %s,\n\n%s (@%s) wants to connect with you.\n\nReview the request: %s\n",
		recipient.FullName, requester.FullName, requester.Username, s.appURL)
	if err := s.email.Send(recipient.Email, subject, body); err != nil {
		logger.Log.Error("failed to send connection request email",
			"recipient", recipient.Id, "error", err)
	}
}

func (s *Connection) Accept(userId, requesterId domain.UserId) error {
	return s.storage.AcceptConnection(requesterId, userId)
}

func (s *Connection) GetConnections(userId domain.UserId) (*api.ConnectionsResponse, error) {
	connections, err := s.storage.GetConnectedUsers(userId)
	if err != nil {
		return nil, err
	}
	followers, err := s.storage.GetFollowers(userId)
	if err != nil {
		return nil, err
	}
	following, err := s.storage.GetFollowing(userId)
	if err != nil {
		return nil, err
	}
	pending, err := s.storage.GetPendingRequesters(userId)
	if err != nil {
		return nil, err
	}

	return &api.ConnectionsResponse{
		Success:            true,
		Connections:        connections,
		Followers:          followers,
		Following:          following,
		PendingConnections: pending,
	}, nil
}

func (s *Connection) GetProfile(profileId domain.UserId) (domain.User, []domain.Post, error) {
	profile, err := s.storage.GetUser(profileId)
	if err != nil {
		return domain.User{}, nil, err
	}
	posts, err := s.storage.GetUserPosts(profileId)
	if err != nil {
		return domain.User{}, nil, err
	}
	return profile, posts, nil
}
