// internal/server/handlers/party.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"baro/internal/domain/party"
	partysvc "baro/internal/service/party"
)

// PartyHandler handles party-related HTTP requests
type PartyHandler struct {
	service party.Service
	finder  party.Finder
}

// NewPartyHandler creates a new party handler
func NewPartyHandler(service party.Service, finder party.Finder) *PartyHandler {
	return &PartyHandler{
		service: service,
		finder:  finder,
	}
}

// ListParties returns all parties with membership annotations for the caller
func (h *PartyHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.service.ListParties(r.Context(), requestUserID(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list parties", err)
		return
	}

	respondWithJSON(w, http.StatusOK, parties)
}

// GetParty returns one party by ID
func (h *PartyHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")

	p, err := h.service.GetParty(r.Context(), partyID, requestUserID(r))
	if err != nil {
		respondWithPartyError(w, "Failed to get party", err)
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

// CreateParty opens a new recruiting party hosted by the caller
func (h *PartyHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	var req party.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.service.CreateParty(r.Context(), userID, req)
	if err != nil {
		respondWithPartyError(w, "Failed to create party", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, p)
}

// JoinParty adds the caller to a party
func (h *PartyHandler) JoinParty(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")
	userID := requestUserID(r)
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	p, err := h.service.JoinParty(r.Context(), partyID, userID)
	if err != nil {
		respondWithPartyError(w, "Failed to join party", err)
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

// LeaveParty removes the caller from a party
func (h *PartyHandler) LeaveParty(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")
	userID := requestUserID(r)
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	p, err := h.service.LeaveParty(r.Context(), partyID, userID)
	if err != nil {
		respondWithPartyError(w, "Failed to leave party", err)
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

// GetNearbyParties returns recruiting parties within range of a location
func (h *PartyHandler) GetNearbyParties(w http.ResponseWriter, r *http.Request) {
	location, err := parseLocation(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid location parameters", err)
		return
	}

	maxDistance := 0.0
	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		maxDistance, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid radius", err)
			return
		}
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
	}

	parties, err := h.finder.Nearby(r.Context(), location, maxDistance, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to find nearby parties", err)
		return
	}

	respondWithJSON(w, http.StatusOK, parties)
}

// respondWithPartyError maps party service errors to HTTP status codes
func respondWithPartyError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, partysvc.ErrInvalidRequest):
		respondWithError(w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, partysvc.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, partysvc.ErrAlreadyJoined),
		errors.Is(err, partysvc.ErrPartyFull),
		errors.Is(err, partysvc.ErrHostCannotLeave),
		errors.Is(err, partysvc.ErrNotMember):
		respondWithError(w, http.StatusConflict, err.Error(), err)
	default:
		respondWithError(w, http.StatusInternalServerError, message, err)
	}
}
