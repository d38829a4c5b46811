package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mpavic/ripple/internal/domain"
	"github.com/mpavic/ripple/internal/repository"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmptyDescription = errors.New("post description is required")
	ErrCommentInvalid   = errors.New("comment must be between 1 and 500 characters")
	ErrUpdateConflict   = errors.New("post was updated concurrently, retry")
	ErrStoreUnavailable = errors.New("store unavailable")
)

const (
	// MaxCommentLen bounds comment text, in runes.
	MaxCommentLen = 500

	// toggleAttempts bounds the re-read loop when like mutations race.
	toggleAttempts = 3
)

// Notifier broadcasts real-time feed events to connected clients.
type Notifier interface {
	PostCreated(post *domain.Post)
	PostLiked(post *domain.Post, actorID uuid.UUID)
	CommentAdded(post *domain.Post, comment *domain.Comment)
}

// PostService owns all post mutations. Likes and comments go through atomic
// per-key store operations, never a whole-post rewrite, so concurrent actors
// on the same post cannot overwrite each other.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	timeout  time.Duration
	notifier Notifier
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, timeout time.Duration) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		timeout:  timeout,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *PostService) SetNotifier(n Notifier) {
	s.notifier = n
}

type CreatePostInput struct {
	Description string `json:"description"`
	// PicturePath is the opaque blob-store reference for an uploaded image.
	PicturePath *string `json:"-"`
}

// Create validates, snapshots the author's identity onto the post and
// persists it. Nothing is written when validation fails.
func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*domain.Post, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, storeErr(err)
	}
	if author == nil {
		return nil, ErrUserNotFound
	}

	post := &domain.Post{
		ID:             uuid.New(),
		AuthorID:       author.ID,
		AuthorName:     author.DisplayName(),
		AuthorLocation: author.Location,
		AuthorPicture:  author.PicturePath,
		Description:    description,
		PicturePath:    input.PicturePath,
		Likes:          domain.LikeSet{},
		Comments:       []domain.Comment{},
		CreatedAt:      time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, storeErr(fmt.Errorf("creating post: %w", err))
	}

	if s.notifier != nil {
		s.notifier.PostCreated(post)
	}

	return post, nil
}

// ToggleLike flips the caller's membership in the post's like set: liked at
// read time means remove, otherwise add. The store mutation is atomic per
// (post, user); when it reports a race the current state is re-read and the
// decision made again, up to toggleAttempts times.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	for range toggleAttempts {
		post, err := s.postRepo.GetByID(ctx, postID)
		if err != nil {
			return nil, storeErr(err)
		}
		if post == nil {
			return nil, ErrPostNotFound
		}

		if post.Likes.Has(userID) {
			err = s.postRepo.RemoveLike(ctx, postID, userID)
		} else {
			err = s.postRepo.AddLike(ctx, postID, userID)
		}
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, storeErr(err)
		}

		updated, err := s.postRepo.GetByID(ctx, postID)
		if err != nil {
			return nil, storeErr(err)
		}
		if updated == nil {
			return nil, ErrPostNotFound
		}

		if s.notifier != nil {
			s.notifier.PostLiked(updated, userID)
		}
		return updated, nil
	}

	return nil, ErrUpdateConflict
}

// AddComment appends to the post's comment sequence with the commenter's
// display name snapshotted in. Appends are single inserts, so concurrent
// commenters never lose entries.
func (s *PostService) AddComment(ctx context.Context, postID, userID uuid.UUID, text string) (*domain.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > MaxCommentLen {
		return nil, ErrCommentInvalid
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, storeErr(err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &domain.Comment{
		ID:         uuid.New(),
		PostID:     postID,
		AuthorID:   user.ID,
		AuthorName: user.DisplayName(),
		Text:       text,
		CreatedAt:  time.Now(),
	}

	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, storeErr(fmt.Errorf("adding comment: %w", err))
	}

	updated, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, storeErr(err)
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}

	if s.notifier != nil {
		s.notifier.CommentAdded(updated, comment)
	}
	return updated, nil
}

func (s *PostService) Feed(ctx context.Context) ([]domain.Post, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	posts, err := s.postRepo.ListFeed(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return posts, nil
}

func (s *PostService) ByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Post, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	posts, err := s.postRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, storeErr(err)
	}
	return posts, nil
}

// bound caps one operation's store work; a stuck store fails the request
// instead of hanging it.
func bound(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStoreUnavailable
	}
	return err
}
