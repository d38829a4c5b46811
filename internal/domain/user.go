package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Location     string    `json:"location,omitempty"`
	Occupation   string    `json:"occupation,omitempty"`
	PicturePath  *string   `json:"picture_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is the name snapshotted onto posts and comments.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
