package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/mpavic/ripple/internal/service"
	"github.com/mpavic/ripple/internal/storage"
	"github.com/mpavic/ripple/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
	blobs       storage.BlobStore
}

func NewAuthHandler(authService *service.AuthService, blobs storage.BlobStore) *AuthHandler {
	return &AuthHandler{authService: authService, blobs: blobs}
}

// Register accepts JSON or, when a profile picture is attached, multipart
// form data. The picture goes to the blob store first; only its reference is
// persisted on the user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeRegister(w, r)
	if !ok {
		return
	}

	if errs := validator.ValidateRegister(input.FirstName, input.LastName, input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Register(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email is already registered")
		} else {
			serverError(w, "register", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateLogin(input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		} else {
			serverError(w, "login", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) decodeRegister(w http.ResponseWriter, r *http.Request) (service.RegisterInput, bool) {
	var input service.RegisterInput

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

	input.FirstName = r.FormValue("first_name")
	input.LastName = r.FormValue("last_name")
	input.Email = r.FormValue("email")
	input.Password = r.FormValue("password")
	input.Location = r.FormValue("location")
	input.Occupation = r.FormValue("occupation")

	ref, ok := saveUpload(w, r, h.blobs)
	if !ok {
		return input, false
	}
	input.PicturePath = ref
	return input, true
}

// saveUpload stores an optional "picture" form file and returns its
// reference. A missing file is not an error.
func saveUpload(w http.ResponseWriter, r *http.Request, blobs storage.BlobStore) (*string, bool) {
	file, header, err := r.FormFile("picture")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid picture upload")
		return nil, false
	}
	defer file.Close()

	ref, err := blobs.Save(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			writeError(w, http.StatusBadRequest, "INVALID_IMAGE", "Only JPEG, PNG and GIF images are accepted")
			return nil, false
		}
		serverError(w, "saving upload", err)
		return nil, false
	}
	return &ref, true
}
