package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brazzinioc/twitter-api/internal/services"
	"github.com/brazzinioc/twitter-api/internal/storage"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps a service error onto its HTTP status code.
func respondError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Message, http.StatusUnprocessableEntity)
	case errors.Is(err, services.ErrAuthenticationFailed):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, services.ErrUnauthorized):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrUnavailable):
		http.Error(w, "Storage unavailable", http.StatusInternalServerError)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
