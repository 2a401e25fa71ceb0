package pg

import (
	"time"

	"github.com/lib/pq"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
)

func (s *Storage) CreateStory(userId domain.UserId, content, mediaURL, mediaType, backgroundColor string) (domain.StoryId, error) {
	var id domain.StoryId
	err := s.db.QueryRow(`
	INSERT INTO stories (user_id, content, media_url, media_type, background_color)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id`,
		userId, content, mediaURL, mediaType, backgroundColor).Scan(&id)
	return id, err
}

// GetStories returns stories from the given authors newer than cutoff,
// newest first, author profile attached.
func (s *Storage) GetStories(userIds []domain.UserId, cutoff time.Time) ([]domain.Story, error) {
	rows, err := s.db.Query(`
	SELECT st.id, st.user_id, st.content, st.media_url, st.media_type, st.background_color, st.created_at,
	       `+prefixedUserColumns("u")+`
	FROM stories st
	JOIN users u ON u.id = st.user_id
	WHERE st.user_id = ANY($1) AND st.created_at > $2
	ORDER BY st.created_at DESC`, pq.Array(userIds), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := []domain.Story{}
	for rows.Next() {
		var st domain.Story
		var u domain.User
		if err := rows.Scan(&st.Id, &st.UserId, &st.Content, &st.MediaURL, &st.MediaType, &st.BackgroundColor, &st.CreatedAt,
			&u.Id, &u.Email, &u.FullName, &u.Username, &u.Bio, &u.Location,
			&u.ProfilePicture, &u.CoverPhoto, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		st.User = &u
		stories = append(stories, st)
	}
	return stories, rows.Err()
}

// DeleteExpiredStories removes stories created before cutoff and reports how
// many were reaped.
func (s *Storage) DeleteExpiredStories(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM stories WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
