package domain

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	Id        PostId         `json:"id"`
	UserId    UserId         `json:"-"`
	User      *User          `json:"user,omitempty"`
	Content   string         `json:"content,omitempty"`
	ImageURLs pq.StringArray `json:"image_urls"`
	PostType  string         `json:"post_type"`
	Likes     pq.StringArray `json:"likes_count"` // user ids that liked the post
	CreatedAt time.Time      `json:"createdAt"`
}
