package pg

import (
	"database/sql"
	"errors"
	"time"

	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
)

// CreateMessage persists a direct message with seen = false and returns the
// stored row.
func (s *Storage) CreateMessage(data domain.MessageCreationData) (domain.Message, error) {
	createdTs := time.Now().UTC().Round(time.Microsecond) // database anyway round to microsecond

	var msg domain.Message
	err := s.db.QueryRow(`
	INSERT INTO messages (from_user_id, to_user_id, text, message_type, media_url, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, from_user_id, to_user_id, text, message_type, media_url, seen, created_at`,
		data.FromUserId, data.ToUserId, data.Text, data.MessageType, data.MediaURL, createdTs).
		Scan(&msg.Id, &msg.FromUserId, &msg.ToUserId, &msg.Text, &msg.MessageType, &msg.MediaURL, &msg.Seen, &msg.CreatedAt)
	if err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// GetMessageWithSender fetches one message with the sender profile attached,
// the shape pushed through the live channel.
func (s *Storage) GetMessageWithSender(id domain.MsgId) (domain.Message, error) {
	var msg domain.Message
	var u domain.User
	err := s.db.QueryRow(`
	SELECT m.id, m.from_user_id, m.to_user_id, m.text, m.message_type, m.media_url, m.seen, m.created_at,
	       `+prefixedUserColumns("u")+`
	FROM messages m
	JOIN users u ON u.id = m.from_user_id
	WHERE m.id = $1`, id).
		Scan(&msg.Id, &msg.FromUserId, &msg.ToUserId, &msg.Text, &msg.MessageType, &msg.MediaURL, &msg.Seen, &msg.CreatedAt,
			&u.Id, &u.Email, &u.FullName, &u.Username, &u.Bio, &u.Location,
			&u.ProfilePicture, &u.CoverPhoto, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "Message not found", StatusCode: 404}
		}
		return domain.Message{}, err
	}
	msg.FromUser = &u
	return msg, nil
}

// GetConversation returns the full bidirectional history between the two
// users, newest first.
func (s *Storage) GetConversation(userId, peerId domain.UserId) ([]domain.Message, error) {
	rows, err := s.db.Query(`
	SELECT id, from_user_id, to_user_id, text, message_type, media_url, seen, created_at
	FROM messages
	WHERE (from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1)
	ORDER BY created_at DESC`, userId, peerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Id, &m.FromUserId, &m.ToUserId, &m.Text, &m.MessageType, &m.MediaURL, &m.Seen, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkSeen flips every message from peerId to userId to seen. The reverse
// direction is untouched.
func (s *Storage) MarkSeen(peerId, userId domain.UserId) error {
	_, err := s.db.Exec(`
	UPDATE messages SET seen = TRUE WHERE from_user_id = $1 AND to_user_id = $2 AND NOT seen`,
		peerId, userId)
	return err
}

// GetRecentMessages returns everything addressed to the user, newest first,
// with both profiles attached.
func (s *Storage) GetRecentMessages(userId domain.UserId) ([]domain.Message, error) {
	rows, err := s.db.Query(`
	SELECT m.id, m.from_user_id, m.to_user_id, m.text, m.message_type, m.media_url, m.seen, m.created_at,
	       `+prefixedUserColumns("f")+`,
	       `+prefixedUserColumns("t")+`
	FROM messages m
	JOIN users f ON f.id = m.from_user_id
	JOIN users t ON t.id = m.to_user_id
	WHERE m.to_user_id = $1
	ORDER BY m.created_at DESC`, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		var from, to domain.User
		if err := rows.Scan(&m.Id, &m.FromUserId, &m.ToUserId, &m.Text, &m.MessageType, &m.MediaURL, &m.Seen, &m.CreatedAt,
			&from.Id, &from.Email, &from.FullName, &from.Username, &from.Bio, &from.Location,
			&from.ProfilePicture, &from.CoverPhoto, &from.CreatedAt, &from.UpdatedAt,
			&to.Id, &to.Email, &to.FullName, &to.Username, &to.Bio, &to.Location,
			&to.ProfilePicture, &to.CoverPhoto, &to.CreatedAt, &to.UpdatedAt); err != nil {
			return nil, err
		}
		m.FromUser = &from
		m.ToUser = &to
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// UnseenCounts aggregates unseen messages per recipient for the notifier.
// Computed fresh each run; nothing is stored.
func (s *Storage) UnseenCounts() ([]domain.UnseenCount, error) {
	rows, err := s.db.Query(`
	SELECT u.id, u.email, u.full_name, COUNT(*)
	FROM messages m
	JOIN users u ON u.id = m.to_user_id
	WHERE NOT m.seen
	GROUP BY u.id, u.email, u.full_name
	ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []domain.UnseenCount{}
	for rows.Next() {
		var c domain.UnseenCount
		if err := rows.Scan(&c.UserId, &c.Email, &c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
