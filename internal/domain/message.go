package domain

import "time"

// Message is a direct message between two users. Immutable after creation
// except for the Seen flag, which flips false->true when the recipient
// fetches the conversation.
type Message struct {
	Id          MsgId     `json:"id"`
	FromUserId  UserId    `json:"from_user_id"`
	ToUserId    UserId    `json:"to_user_id"`
	Text        string    `json:"text,omitempty"`
	MessageType string    `json:"message_type"`
	MediaURL    string    `json:"media_url,omitempty"`
	Seen        bool      `json:"seen"`
	CreatedAt   time.Time `json:"createdAt"`

	// Enriched variants carry full profiles instead of bare ids.
	FromUser *User `json:"from_user,omitempty"`
	ToUser   *User `json:"to_user,omitempty"`
}

// MessageCreationData is what the dispatcher needs to persist a message.
type MessageCreationData struct {
	FromUserId  UserId
	ToUserId    UserId
	Text        string
	MessageType string
	MediaURL    string
}

// UnseenCount is one row of the notifier's per-recipient aggregate.
type UnseenCount struct {
	UserId UserId
	Email  string
	Name   string
	Count  int
}
