package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mpavic/ripple/internal/domain"
)

var (
	// ErrDuplicateEmail reports a unique-key violation on users.email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrConflict reports that a like mutation raced with a concurrent one:
	// an insert hit an existing membership or a delete found none. Callers
	// re-read and retry.
	ErrConflict = errors.New("concurrent update conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PostRepository is the persistence boundary for posts. AddLike and
// RemoveLike are atomic set mutations on post_likes keyed by (post, user);
// they never rewrite the whole post, which is what closes the lost-update
// window between concurrent callers. AddComment is a single append.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListFeed(ctx context.Context) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Post, error)
	AddLike(ctx context.Context, postID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) error
	AddComment(ctx context.Context, comment *domain.Comment) error
}
