package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/blockedby/jobtrends/internal/logger"
	"github.com/blockedby/jobtrends/internal/models"
	"github.com/blockedby/jobtrends/internal/tracker"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err // Client disconnected
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

var validationErrors = []error{
	models.ErrInvalidStatus,
	models.ErrSameStatus,
	models.ErrOutOfOrder,
	models.ErrEmptyNote,
	models.ErrCompanyRequired,
	models.ErrRoleRequired,
	models.ErrInvalidLocation,
	models.ErrInvalidSource,
}

// respondServiceError maps tracker errors to status codes.
func respondServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	if errors.Is(err, tracker.ErrNotFound) {
		respondError(w, http.StatusNotFound, "application not found")
		return
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	log.Error().Err(err).Msg("application request failed")
	respondError(w, http.StatusInternalServerError, "internal error")
}

// parseSince accepts RFC 3339 timestamps or plain dates.
func parseSince(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
