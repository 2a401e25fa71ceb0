package pg

import (
	"database/sql"
	"errors"
	"time"

	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
)

// CountRecentRequests counts connection requests sent by the user since the
// window start, for the anti-spam cap.
func (s *Storage) CountRecentRequests(fromUserId domain.UserId, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(`
	SELECT COUNT(*) FROM connections WHERE from_user_id = $1 AND created_at > $2`,
		fromUserId, since).Scan(&n)
	return n, err
}

// GetConnectionBetween finds a request in either direction, if any.
func (s *Storage) GetConnectionBetween(a, b domain.UserId) (*domain.Connection, error) {
	var c domain.Connection
	err := s.db.QueryRow(`
	SELECT id, from_user_id, to_user_id, status, created_at
	FROM connections
	WHERE (from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1)`,
		a, b).Scan(&c.Id, &c.FromUserId, &c.ToUserId, &c.Status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Storage) CreateConnectionRequest(fromUserId, toUserId domain.UserId) (domain.ConnectionId, error) {
	var id domain.ConnectionId
	err := s.db.QueryRow(`
	INSERT INTO connections (from_user_id, to_user_id) VALUES ($1, $2) RETURNING id`,
		fromUserId, toUserId).Scan(&id)
	return id, err
}

// AcceptConnection flips a pending request from requesterId to userId into an
// accepted connection.
func (s *Storage) AcceptConnection(requesterId, userId domain.UserId) error {
	result, err := s.db.Exec(`
	UPDATE connections SET status = 'accepted'
	WHERE from_user_id = $1 AND to_user_id = $2 AND status = 'pending'`,
		requesterId, userId)
	if err != nil {
		return err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Connection not found", StatusCode: 404}
	}
	return nil
}

// GetPendingRequesters returns profiles of users with an open request to userId.
func (s *Storage) GetPendingRequesters(userId domain.UserId) ([]domain.User, error) {
	rows, err := s.db.Query(`
	SELECT `+prefixedUserColumns("u")+`
	FROM users u
	JOIN connections c ON c.from_user_id = u.id
	WHERE c.to_user_id = $1 AND c.status = 'pending'
	ORDER BY c.created_at DESC`, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}
