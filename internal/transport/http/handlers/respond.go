package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mpavic/ripple/internal/service"
	"github.com/mpavic/ripple/pkg/validator"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// serverError distinguishes an unreachable store (503, client may retry
// later) from everything else (500).
func serverError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrStoreUnavailable) {
		log.Printf("ERROR %s: store unavailable: %v", op, err)
		writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Storage is temporarily unavailable")
		return
	}
	log.Printf("ERROR %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}
