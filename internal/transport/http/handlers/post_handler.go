package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mpavic/ripple/internal/service"
	"github.com/mpavic/ripple/internal/storage"
	"github.com/mpavic/ripple/internal/transport/http/middleware"
	"github.com/mpavic/ripple/pkg/validator"
)

type PostHandler struct {
	postService *service.PostService
	blobs       storage.BlobStore
}

func NewPostHandler(postService *service.PostService, blobs storage.BlobStore) *PostHandler {
	return &PostHandler{postService: postService, blobs: blobs}
}

// Create answers with the created post, not a feed snapshot; clients that
// want the feed call GET /posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	input, ok := h.decodeCreate(w, r)
	if !ok {
		return
	}

	if errs := validator.ValidatePost(input.Description); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyDescription):
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Description is required")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "Author does not exist")
		default:
			serverError(w, "create post", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.Feed(r.Context())
	if err != nil {
		serverError(w, "feed", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) ByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	posts, err := h.postService.ByAuthor(r.Context(), authorID)
	if err != nil {
		serverError(w, "posts by author", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// ToggleLike flips the caller's like on the post. The acting user comes from
// the token; a user_id in the body is accepted for older clients but ignored.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return
	}

	post, err := h.postService.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
		case errors.Is(err, service.ErrUpdateConflict):
			writeError(w, http.StatusConflict, "CONFLICT", "Post was updated concurrently, retry")
		default:
			serverError(w, "toggle like", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return
	}

	var input struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateComment(input.Comment); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	post, err := h.postService.AddComment(r.Context(), postID, userID, input.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentInvalid):
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Comment must be between 1 and 500 characters")
		case errors.Is(err, service.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "Commenter does not exist")
		default:
			serverError(w, "add comment", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) decodeCreate(w http.ResponseWriter, r *http.Request) (service.CreatePostInput, bool) {
	var input service.CreatePostInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return input, false
		}
		return input, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize)
	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid or oversized form data")
		return input, false
	}

	input.Description = r.FormValue("description")

	ref, ok := saveUpload(w, r, h.blobs)
	if !ok {
		return input, false
	}
	input.PicturePath = ref
	return input, true
}
