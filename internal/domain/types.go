package domain

type (
	// UserId is the auth-provider subject, e.g. "user_2k3j...".
	UserId = string

	PostId       = int64
	StoryId      = int64
	MsgId        = int64
	ConnectionId = int64
)

// Message kinds on the wire.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
)

// Post kinds on the wire.
const (
	PostTypeText          = "text"
	PostTypeImage         = "image"
	PostTypeTextWithImage = "text_with_image"
)

// Story media kinds.
const (
	StoryMediaText  = "text"
	StoryMediaImage = "image"
	StoryMediaVideo = "video"
)

// Connection request states.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
)
