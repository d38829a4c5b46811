package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mpavic/ripple/internal/domain"
	"github.com/mpavic/ripple/internal/repository"
)

type postRecord struct {
	post     domain.Post
	likes    map[uuid.UUID]bool
	comments []domain.Comment
}

type PostRepo struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*postRecord
	order []uuid.UUID

	// WriteCalls counts mutating store calls, for tests asserting that
	// failed validation performs no writes.
	WriteCalls int
}

func NewPostRepo() *PostRepo {
	return &PostRepo{posts: make(map[uuid.UUID]*postRecord)}
}

func (r *PostRepo) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.WriteCalls++
	r.posts[post.ID] = &postRecord{post: *post, likes: make(map[uuid.UUID]bool)}
	r.order = append(r.order, post.ID)
	return nil
}

func (r *PostRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	p := rec.snapshot()
	return &p, nil
}

func (r *PostRepo) ListFeed(_ context.Context) ([]domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := make([]domain.Post, 0, len(r.order))
	for _, id := range r.order {
		posts = append(posts, r.posts[id].snapshot())
	}
	// Newest first, matching the postgres feed ordering.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (r *PostRepo) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := []domain.Post{}
	for _, id := range r.order {
		if r.posts[id].post.AuthorID == authorID {
			posts = append(posts, r.posts[id].snapshot())
		}
	}
	return posts, nil
}

func (r *PostRepo) AddLike(_ context.Context, postID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.WriteCalls++
	rec, ok := r.posts[postID]
	if !ok {
		return repository.ErrConflict
	}
	if rec.likes[userID] {
		return repository.ErrConflict
	}
	rec.likes[userID] = true
	return nil
}

func (r *PostRepo) RemoveLike(_ context.Context, postID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.WriteCalls++
	rec, ok := r.posts[postID]
	if !ok {
		return repository.ErrConflict
	}
	if !rec.likes[userID] {
		return repository.ErrConflict
	}
	delete(rec.likes, userID)
	return nil
}

func (r *PostRepo) AddComment(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.WriteCalls++
	rec, ok := r.posts[comment.PostID]
	if !ok {
		return repository.ErrConflict
	}
	rec.comments = append(rec.comments, *comment)
	return nil
}

// snapshot returns a detached copy; callers hold at least a read lock.
func (rec *postRecord) snapshot() domain.Post {
	p := rec.post
	p.Likes = make(domain.LikeSet, len(rec.likes))
	for id := range rec.likes {
		p.Likes[id] = true
	}
	p.Comments = append([]domain.Comment(nil), rec.comments...)
	if p.Comments == nil {
		p.Comments = []domain.Comment{}
	}
	return p
}
