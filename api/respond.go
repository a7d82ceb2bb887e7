package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ebubechi-ihediwa/StellarCade/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// respondError maps service errors onto HTTP status codes. Unrecognized
// errors are logged and surfaced as an opaque 500 so internal detail
// stays out of responses.
func respondError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidChoice),
		errors.Is(err, service.ErrInvalidFee):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, service.ErrAlreadySettled),
		errors.Is(err, service.ErrAlreadyCommitted),
		errors.Is(err, service.ErrAlreadyInitialized),
		errors.Is(err, service.ErrCommitMismatch),
		errors.Is(err, service.ErrNotCommitted):
		status = http.StatusConflict
	default:
		log.WithError(err).Error("Request failed")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}
