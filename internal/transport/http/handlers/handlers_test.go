package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mpavic/ripple/internal/domain"
	"github.com/mpavic/ripple/internal/repository/memory"
	"github.com/mpavic/ripple/internal/service"
	"github.com/mpavic/ripple/internal/storage"
	"github.com/mpavic/ripple/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMux wires handlers exactly like cmd/server, over in-memory
// repositories and a throwaway upload dir.
func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	userRepo := memory.NewUserRepo()
	postRepo := memory.NewPostRepo()
	blobs, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	issuer := service.NewTokenIssuer("test-secret", time.Hour)
	authService := service.NewAuthService(userRepo, issuer, time.Second)
	postService := service.NewPostService(postRepo, userRepo, time.Second)

	authHandler := NewAuthHandler(authService, blobs)
	postHandler := NewPostHandler(postService, blobs)
	auth := middleware.Auth(issuer)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("POST /posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("GET /posts", auth(http.HandlerFunc(postHandler.Feed)))
	mux.Handle("GET /posts/{userId}", auth(http.HandlerFunc(postHandler.ByAuthor)))
	mux.Handle("PATCH /posts/{id}/like", auth(http.HandlerFunc(postHandler.ToggleLike)))
	mux.Handle("POST /posts/{id}/comment", auth(http.HandlerFunc(postHandler.AddComment)))
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

var registerBody = map[string]string{
	"first_name": "Ana",
	"last_name":  "Kovac",
	"email":      "a@x.com",
	"password":   "Sup3rSecret",
	"location":   "Zagreb",
	"occupation": "Engineer",
}

func TestRegisterLoginPostLikeCommentFlow(t *testing.T) {
	mux := newTestMux(t)

	// Register
	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[service.AuthResponse](t, rec)
	assert.Equal(t, "a@x.com", reg.User.Email)

	// Login
	rec = doJSON(t, mux, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[service.AuthResponse](t, rec)
	token := login.AccessToken
	require.NotEmpty(t, token)
	userID := login.User.ID

	// Create post
	rec = doJSON(t, mux, http.MethodPost, "/posts", token, map[string]string{"description": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[domain.Post](t, rec)
	assert.Equal(t, "hello", post.Description)
	assert.Equal(t, "Ana Kovac", post.AuthorName)

	likePath := fmt.Sprintf("/posts/%s/like", post.ID)

	// Like
	rec = doJSON(t, mux, http.MethodPatch, likePath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	liked := decode[domain.Post](t, rec)
	assert.True(t, liked.Likes.Has(userID))

	// Unlike
	rec = doJSON(t, mux, http.MethodPatch, likePath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	unliked := decode[domain.Post](t, rec)
	assert.Empty(t, unliked.Likes)

	// Comment
	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/posts/%s/comment", post.ID), token, map[string]string{"comment": "hi"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	commented := decode[domain.Post](t, rec)
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, userID, commented.Comments[0].AuthorID)
	assert.Equal(t, "hi", commented.Comments[0].Text)

	// Feed and by-author agree
	rec = doJSON(t, mux, http.MethodGet, "/posts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[[]domain.Post](t, rec)
	require.Len(t, feed, 1)

	rec = doJSON(t, mux, http.MethodGet, "/posts/"+userID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]domain.Post](t, rec)
	require.Len(t, mine, 1)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", map[string]string{
		"first_name": "", "email": "nope", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostRoutesRequireAuth(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/posts", "", map[string]string{"description": "hello"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordHashNeverInResponse(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NotContains(t, rec.Body.String(), "Sup3rSecret")
}

func TestEmptyFeedIsJSONArray(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decode[service.AuthResponse](t, rec)

	rec = doJSON(t, mux, http.MethodGet, "/posts", reg.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = doJSON(t, mux, http.MethodGet, "/posts/"+reg.User.ID.String(), reg.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestLikeUnknownPost(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decode[service.AuthResponse](t, rec).AccessToken

	rec = doJSON(t, mux, http.MethodPatch, "/posts/6b9f3a24-52a8-4f6b-b2fc-6f7b9f250000/like", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
