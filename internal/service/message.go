package service

import (
	"context"
	"encoding/json"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"
	"github.com/chatterbox-dev/chatterbox/internal/logger"
	"github.com/chatterbox-dev/chatterbox/internal/media"
	"github.com/chatterbox-dev/chatterbox/internal/service/utils"
)

const messageImageWidth = 1280

type MessageService interface {
	Send(ctx context.Context, fromUserId, toUserId domain.UserId, text string, attachment *Upload) (domain.Message, error)
	GetConversation(userId, peerId domain.UserId) ([]domain.Message, error)
	GetRecent(userId domain.UserId) ([]domain.Message, error)
}

type MessageStorage interface {
	CreateMessage(data domain.MessageCreationData) (domain.Message, error)
	GetMessageWithSender(id domain.MsgId) (domain.Message, error)
	GetConversation(userId, peerId domain.UserId) ([]domain.Message, error)
	MarkSeen(peerId, userId domain.UserId) error
	GetRecentMessages(userId domain.UserId) ([]domain.Message, error)
}

// Pusher is the live-channel side of delivery; the SSE registry implements it.
type Pusher interface {
	Push(userId domain.UserId, payload []byte) bool
}

// RelayPublisher mirrors delivered messages to other instances. Optional.
type RelayPublisher interface {
	Publish(ctx context.Context, toUserId domain.UserId, payload []byte) error
}

type Message struct {
	storage  MessageStorage
	uploader media.Uploader
	pusher   Pusher
	relay    RelayPublisher // nil when running single-instance
}

func NewMessage(storage MessageStorage, uploader media.Uploader, pusher Pusher, relay RelayPublisher) MessageService {
	return &Message{storage, uploader, pusher, relay}
}

// Send resolves the attachment, persists the message, then attempts real-time
// delivery. The response to the sender reflects only validation, upload and
// persistence; the push is fire-and-forget and never surfaces to the caller.
func (s *Message) Send(ctx context.Context, fromUserId, toUserId domain.UserId, text string, attachment *Upload) (domain.Message, error) {
	text = utils.SanitizeText(text)

	if toUserId == "" {
		return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "Recipient is required", StatusCode: 400}
	}
	if text == "" && attachment == nil {
		return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "Message is empty", StatusCode: 400}
	}

	messageType := domain.MessageTypeText
	var mediaURL string
	if attachment != nil {
		url, err := s.uploader.Upload(ctx, attachment.Data, attachment.Filename, "messages", messageImageWidth)
		if err != nil {
			return domain.Message{}, err
		}
		mediaURL = url
		messageType = domain.MessageTypeImage
	}

	msg, err := s.storage.CreateMessage(domain.MessageCreationData{
		FromUserId:  fromUserId,
		ToUserId:    toUserId,
		Text:        text,
		MessageType: messageType,
		MediaURL:    mediaURL,
	})
	if err != nil {
		return domain.Message{}, err
	}

	go s.deliver(msg.Id, toUserId)

	return msg, nil
}

// deliver pushes the enriched message to the recipient's live channel, if
// any, and mirrors it through the relay. Best-effort: every failure is logged
// and swallowed.
func (s *Message) deliver(id domain.MsgId, toUserId domain.UserId) {
	enriched, err := s.storage.GetMessageWithSender(id)
	if err != nil {
		logger.Log.Error("failed to load message for delivery", "message_id", id, "error", err)
		return
	}

	payload, err := json.Marshal(enriched)
	if err != nil {
		logger.Log.Error("failed to encode message for delivery", "message_id", id, "error", err)
		return
	}

	if !s.pusher.Push(toUserId, payload) {
		logger.Log.Debug("recipient has no open live channel", "recipient", toUserId)
	}

	if s.relay != nil {
		if err := s.relay.Publish(context.Background(), toUserId, payload); err != nil {
			logger.Log.Error("failed to relay message", "message_id", id, "error", err)
		}
	}
}

// GetConversation returns the full history with peerId, newest first, and
// marks everything from peerId to the caller as seen.
func (s *Message) GetConversation(userId, peerId domain.UserId) ([]domain.Message, error) {
	messages, err := s.storage.GetConversation(userId, peerId)
	if err != nil {
		return nil, err
	}
	if err := s.storage.MarkSeen(peerId, userId); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Message) GetRecent(userId domain.UserId) ([]domain.Message, error) {
	return s.storage.GetRecentMessages(userId)
}
