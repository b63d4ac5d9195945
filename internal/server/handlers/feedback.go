// internal/server/handlers/feedback.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"baro/internal/domain/feedback"
	feedbacksvc "baro/internal/service/feedback"
)

// FeedbackHandler handles post-party feedback HTTP requests
type FeedbackHandler struct {
	service feedback.Service
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(service feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
	}
}

// GetMyParties returns the caller's parties with their feedback window status
func (h *FeedbackHandler) GetMyParties(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	parties, err := h.service.MyParties(r.Context(), userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list feedback parties", err)
		return
	}

	respondWithJSON(w, http.StatusOK, parties)
}

// GetTargets returns the co-members the caller can rate for a party
func (h *FeedbackHandler) GetTargets(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")
	userID := requestUserID(r)
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	targets, err := h.service.Targets(r.Context(), partyID, userID)
	if err != nil {
		if errors.Is(err, feedbacksvc.ErrNotMember) {
			respondWithError(w, http.StatusForbidden, err.Error(), err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to list feedback targets", err)
		return
	}

	respondWithJSON(w, http.StatusOK, targets)
}

// SubmitFeedback records the caller's ratings for party co-members
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")
	userID := requestUserID(r)
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	var req feedback.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.Submit(r.Context(), partyID, userID, req); err != nil {
		switch {
		case errors.Is(err, feedbacksvc.ErrPartyMismatch):
			respondWithError(w, http.StatusBadRequest, err.Error(), err)
		case errors.Is(err, feedbacksvc.ErrNotMember):
			respondWithError(w, http.StatusForbidden, err.Error(), err)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to submit feedback", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "submitted"})
}
