package domain

import "time"

// Connection is a mutual relationship request between two users, distinct
// from the one-directional follow edge.
type Connection struct {
	Id         ConnectionId `json:"id"`
	FromUserId UserId       `json:"from_user_id"`
	ToUserId   UserId       `json:"to_user_id"`
	Status     string       `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
}
