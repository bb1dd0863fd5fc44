package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"planora-project/backend/services"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError renders every failure as a structured {error: string} payload.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrTaskInvalidArgs):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrBadCredentials),
		errors.Is(err, services.ErrNotVerified):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
