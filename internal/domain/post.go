package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post carries a snapshot of the author's name, location and picture taken at
// creation time. The snapshot intentionally does not track later profile
// edits; it records who the author was when the post was made.
type Post struct {
	ID             uuid.UUID `json:"id"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorName     string    `json:"author_name"`
	AuthorLocation string    `json:"author_location,omitempty"`
	AuthorPicture  *string   `json:"author_picture,omitempty"`
	Description    string    `json:"description"`
	PicturePath    *string   `json:"picture_path,omitempty"`
	Likes          LikeSet   `json:"likes"`
	Comments       []Comment `json:"comments"`
	CreatedAt      time.Time `json:"created_at"`
}

// LikeSet is the set of users who currently like a post. It marshals as an
// object of user id → true, absent means not liked.
type LikeSet map[uuid.UUID]bool

func (s LikeSet) Has(userID uuid.UUID) bool {
	return s[userID]
}

// Comment is an append-only entry scoped to one post. AuthorName is a
// snapshot of the commenter's display name at the time of the comment.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	PostID     uuid.UUID `json:"post_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
