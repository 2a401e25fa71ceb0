package pg

import (
	"database/sql"
	"errors"
	"fmt"

	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
)

const userColumns = `id, email, full_name, username, bio, location, profile_picture, cover_photo, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.Id, &u.Email, &u.FullName, &u.Username, &u.Bio, &u.Location,
		&u.ProfilePicture, &u.CoverPhoto, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *Storage) GetUser(id domain.UserId) (domain.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "user not found", StatusCode: 404}
		}
		return domain.User{}, err
	}
	return u, nil
}

// UpsertUser creates or refreshes a user from an auth-provider event.
func (s *Storage) UpsertUser(u domain.User) error {
	_, err := s.db.Exec(`
	INSERT INTO users (id, email, full_name, username, profile_picture)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		email = EXCLUDED.email,
		full_name = EXCLUDED.full_name,
		profile_picture = EXCLUDED.profile_picture,
		updated_at = now()`,
		u.Id, u.Email, u.FullName, u.Username, u.ProfilePicture)
	return err
}

func (s *Storage) DeleteUser(id domain.UserId) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	return err
}

func (s *Storage) UsernameTaken(username string, excludeId domain.UserId) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
		username, excludeId).Scan(&exists)
	return exists, err
}

// UpdateProfile applies only the provided fields and returns the fresh row.
func (s *Storage) UpdateProfile(id domain.UserId, upd domain.ProfileUpdate) (domain.User, error) {
	row := s.db.QueryRow(`
	UPDATE users SET
		username = COALESCE($2, username),
		bio = COALESCE($3, bio),
		location = COALESCE($4, location),
		full_name = COALESCE($5, full_name),
		profile_picture = CASE WHEN $6 = '' THEN profile_picture ELSE $6 END,
		cover_photo = CASE WHEN $7 = '' THEN cover_photo ELSE $7 END,
		updated_at = now()
	WHERE id = $1
	RETURNING `+userColumns,
		id, upd.Username, upd.Bio, upd.Location, upd.FullName, upd.ProfilePicture, upd.CoverPhoto)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "user not found", StatusCode: 404}
		}
		return domain.User{}, err
	}
	return u, nil
}

// SearchUsers matches the input case-insensitively against username, email,
// full name and location, excluding the caller.
func (s *Storage) SearchUsers(input string, excludeId domain.UserId) ([]domain.User, error) {
	pattern := "%" + input + "%"
	rows, err := s.db.Query(`
	SELECT `+userColumns+`
	FROM users
	WHERE id <> $2
	  AND (username ILIKE $1 OR email ILIKE $1 OR full_name ILIKE $1 OR location ILIKE $1)
	ORDER BY username`, pattern, excludeId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]domain.User, error) {
	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Storage) Follow(followerId, followingId domain.UserId) error {
	result, err := s.db.Exec(`
	INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)
	ON CONFLICT DO NOTHING`, followerId, followingId)
	if err != nil {
		return err
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if inserted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "you are already following this user", StatusCode: 400}
	}
	return nil
}

func (s *Storage) Unfollow(followerId, followingId domain.UserId) error {
	_, err := s.db.Exec(`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerId, followingId)
	return err
}

func (s *Storage) GetFollowers(id domain.UserId) ([]domain.User, error) {
	return s.queryUsersJoin(`JOIN follows f ON f.follower_id = u.id WHERE f.following_id = $1`, id)
}

func (s *Storage) GetFollowing(id domain.UserId) ([]domain.User, error) {
	return s.queryUsersJoin(`JOIN follows f ON f.following_id = u.id WHERE f.follower_id = $1`, id)
}

// GetConnectedUsers returns the other side of every accepted connection.
func (s *Storage) GetConnectedUsers(id domain.UserId) ([]domain.User, error) {
	rows, err := s.db.Query(`
	SELECT `+prefixedUserColumns("u")+`
	FROM users u
	JOIN connections c
	  ON (c.from_user_id = $1 AND c.to_user_id = u.id)
	  OR (c.to_user_id = $1 AND c.from_user_id = u.id)
	WHERE c.status = 'accepted'
	ORDER BY u.username`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

// NetworkIds returns the caller plus everyone they follow or are connected
// with; the feed and the stories bar are both scoped to this set.
func (s *Storage) NetworkIds(id domain.UserId) ([]domain.UserId, error) {
	rows, err := s.db.Query(`
	SELECT $1::text
	UNION
	SELECT following_id FROM follows WHERE follower_id = $1
	UNION
	SELECT CASE WHEN from_user_id = $1 THEN to_user_id ELSE from_user_id END
	FROM connections WHERE status = 'accepted' AND (from_user_id = $1 OR to_user_id = $1)`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []domain.UserId{}
	for rows.Next() {
		var uid domain.UserId
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		ids = append(ids, uid)
	}
	return ids, rows.Err()
}

func (s *Storage) queryUsersJoin(joinClause string, id domain.UserId) ([]domain.User, error) {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT %s FROM users u %s ORDER BY u.username`,
		prefixedUserColumns("u"), joinClause), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func prefixedUserColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.email, %[1]s.full_name, %[1]s.username, %[1]s.bio, %[1]s.location, %[1]s.profile_picture, %[1]s.cover_photo, %[1]s.created_at, %[1]s.updated_at`, alias)
}
