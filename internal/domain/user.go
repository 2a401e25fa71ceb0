package domain

import "time"

type User struct {
	Id             UserId    `json:"_id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Username       string    `json:"username"`
	Bio            string    `json:"bio,omitempty"`
	Location       string    `json:"location,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CoverPhoto     string    `json:"cover_photo,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the editable profile fields. Nil pointers mean
// "leave unchanged" so a partial update does not blank existing values.
type ProfileUpdate struct {
	Username *string
	Bio      *string
	Location *string
	FullName *string

	ProfilePicture string // already-uploaded URL, empty = unchanged
	CoverPhoto     string
}
