package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mpavic/ripple/internal/domain"
	"github.com/mpavic/ripple/internal/repository"
	"github.com/stretchr/testify/assert"
)

// stuckUserRepo blocks every call until the operation context is cancelled,
// modelling an unresponsive store.
type stuckUserRepo struct{}

func (stuckUserRepo) Create(ctx context.Context, _ *domain.User) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stuckUserRepo) GetByID(ctx context.Context, _ uuid.UUID) (*domain.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stuckUserRepo) GetByEmail(ctx context.Context, _ string) (*domain.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type stuckPostRepo struct{ repository.PostRepository }

func (stuckPostRepo) GetByID(ctx context.Context, _ uuid.UUID) (*domain.Post, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stuckPostRepo) ListFeed(ctx context.Context) ([]domain.Post, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

const testStoreTimeout = 20 * time.Millisecond

func TestLoginStoreTimeout(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	svc := NewAuthService(stuckUserRepo{}, issuer, testStoreTimeout)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "pw"})
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	case <-time.After(time.Second):
		t.Fatal("login hung instead of timing out against a stuck store")
	}
}

func TestRegisterStoreTimeout(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	svc := NewAuthService(stuckUserRepo{}, issuer, testStoreTimeout)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Register(context.Background(), RegisterInput{
			FirstName: "Ana", LastName: "Kovac",
			Email: "a@x.com", Password: "Sup3rSecret",
		})
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	case <-time.After(time.Second):
		t.Fatal("register hung instead of timing out against a stuck store")
	}
}

func TestToggleLikeStoreTimeout(t *testing.T) {
	svc := NewPostService(stuckPostRepo{}, stuckUserRepo{}, testStoreTimeout)

	_, err := svc.ToggleLike(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestFeedStoreTimeout(t *testing.T) {
	svc := NewPostService(stuckPostRepo{}, stuckUserRepo{}, testStoreTimeout)

	_, err := svc.Feed(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
