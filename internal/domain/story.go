package domain

import "time"

type Story struct {
	Id              StoryId   `json:"id"`
	UserId          UserId    `json:"-"`
	User            *User     `json:"user,omitempty"`
	Content         string    `json:"content,omitempty"`
	MediaURL        string    `json:"media_url,omitempty"`
	MediaType       string    `json:"media_type"`
	BackgroundColor string    `json:"background_color,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
