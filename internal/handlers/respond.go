package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/quanghm/coindex/internal/errors"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Every category is
// surfaced as a single user-facing message; nothing here panics or crashes.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsPriceNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsFetch(err):
		status = http.StatusBadGateway
	case apperrors.IsBackend(err):
		status = http.StatusInternalServerError
	}
	if status >= 500 {
		logger.Error("request failed", zap.Error(err))
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
