package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mpavic/ripple/internal/domain"
	"github.com/mpavic/ripple/internal/repository"
)

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

const postColumns = "id, author_id, author_name, author_location, author_picture, description, picture_path, created_at"

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, author_id, author_name, author_location, author_picture, description, picture_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		post.ID, post.AuthorID, post.AuthorName, post.AuthorLocation,
		post.AuthorPicture, post.Description, post.PicturePath, post.CreatedAt,
	)
	return err
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var p domain.Post
	err := r.pool.QueryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id).Scan(
		&p.ID, &p.AuthorID, &p.AuthorName, &p.AuthorLocation,
		&p.AuthorPicture, &p.Description, &p.PicturePath, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadInteractions(ctx, []*domain.Post{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) ListFeed(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, "SELECT "+postColumns+" FROM posts ORDER BY created_at DESC")
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Post, error) {
	return r.list(ctx, "SELECT "+postColumns+" FROM posts WHERE author_id = $1 ORDER BY created_at DESC", authorID)
}

// AddLike inserts one membership. A duplicate insert means another call for
// the same (post, user) won the race; surfaced as ErrConflict so the engine
// can re-read and decide again.
func (r *PostRepo) AddLike(ctx context.Context, postID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		postID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrConflict
	}
	return nil
}

// RemoveLike deletes one membership; zero rows means it was already gone.
func (r *PostRepo) RemoveLike(ctx context.Context, postID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`,
		postID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrConflict
	}
	return nil
}

func (r *PostRepo) AddComment(ctx context.Context, comment *domain.Comment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO post_comments (id, post_id, author_id, author_name, body, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID, comment.PostID, comment.AuthorID,
		comment.AuthorName, comment.Text, comment.CreatedAt,
	)
	return err
}

func (r *PostRepo) list(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Never nil: an empty feed serializes as [], not null.
	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.AuthorName, &p.AuthorLocation,
			&p.AuthorPicture, &p.Description, &p.PicturePath, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	if err := r.loadInteractions(ctx, refs); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadInteractions fills likes and comments for the given posts with one
// query each.
func (r *PostRepo) loadInteractions(ctx context.Context, posts []*domain.Post) error {
	byID := make(map[uuid.UUID]*domain.Post, len(posts))
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		p.Likes = domain.LikeSet{}
		p.Comments = []domain.Comment{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT post_id, user_id FROM post_likes WHERE post_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var postID, userID uuid.UUID
		if err := rows.Scan(&postID, &userID); err != nil {
			rows.Close()
			return err
		}
		byID[postID].Likes[userID] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id, post_id, author_id, author_name, body, created_at
		 FROM post_comments WHERE post_id = ANY($1) ORDER BY created_at, id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return err
		}
		byID[c.PostID].Comments = append(byID[c.PostID].Comments, c)
	}
	return rows.Err()
}
