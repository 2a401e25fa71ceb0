package pg

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	internal_errors "github.com/chatterbox-dev/chatterbox/internal/errors"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
)

func (s *Storage) CreatePost(userId domain.UserId, content string, imageURLs []string, postType string) (domain.PostId, error) {
	var id domain.PostId
	err := s.db.QueryRow(`
	INSERT INTO posts (user_id, content, image_urls, post_type)
	VALUES ($1, $2, $3, $4)
	RETURNING id`,
		userId, content, pq.StringArray(imageURLs), postType).Scan(&id)
	return id, err
}

// GetFeedPosts returns the newest posts authored by any of userIds, author
// profile attached.
func (s *Storage) GetFeedPosts(userIds []domain.UserId, limit int) ([]domain.Post, error) {
	rows, err := s.db.Query(`
	SELECT p.id, p.user_id, p.content, p.image_urls, p.post_type, p.likes, p.created_at,
	       `+prefixedUserColumns("u")+`
	FROM posts p
	JOIN users u ON u.id = p.user_id
	WHERE p.user_id = ANY($1)
	ORDER BY p.created_at DESC
	LIMIT $2`, pq.Array(userIds), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (s *Storage) GetUserPosts(userId domain.UserId) ([]domain.Post, error) {
	rows, err := s.db.Query(`
	SELECT p.id, p.user_id, p.content, p.image_urls, p.post_type, p.likes, p.created_at,
	       `+prefixedUserColumns("u")+`
	FROM posts p
	JOIN users u ON u.id = p.user_id
	WHERE p.user_id = $1
	ORDER BY p.created_at DESC`, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

func collectPosts(rows *sql.Rows) ([]domain.Post, error) {
	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		var u domain.User
		if err := rows.Scan(&p.Id, &p.UserId, &p.Content, &p.ImageURLs, &p.PostType, &p.Likes, &p.CreatedAt,
			&u.Id, &u.Email, &u.FullName, &u.Username, &u.Bio, &u.Location,
			&u.ProfilePicture, &u.CoverPhoto, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		p.User = &u
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ToggleLike adds the user to the post's like set, or removes them if already
// present. Returns true when the post ends up liked.
func (s *Storage) ToggleLike(postId domain.PostId, userId domain.UserId) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback() // The rollback will be ignored if the tx has been committed later in the function.

	var likes pq.StringArray
	err = tx.QueryRow(`SELECT likes FROM posts WHERE id = $1 FOR UPDATE`, postId).Scan(&likes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: 404}
		}
		return false, err
	}

	liked := false
	updated := make([]string, 0, len(likes)+1)
	for _, id := range likes {
		if id != userId {
			updated = append(updated, id)
		}
	}
	if len(updated) == len(likes) { // was not liked yet
		updated = append(updated, userId)
		liked = true
	}

	if _, err := tx.Exec(`UPDATE posts SET likes = $2 WHERE id = $1`, postId, pq.StringArray(updated)); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return liked, nil
}
