// internal/server/handlers/recommend.go

package handlers

import (
	"net/http"
	"strconv"

	"baro/internal/domain/facility"
	"baro/internal/domain/profile"
	"baro/internal/domain/sport"
)

// RecommendHandler handles facility recommendation HTTP requests
type RecommendHandler struct {
	recommender facility.Recommender
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(recommender facility.Recommender) *RecommendHandler {
	return &RecommendHandler{
		recommender: recommender,
	}
}

// GetFacilities returns ranked sports facilities near a location
func (h *RecommendHandler) GetFacilities(w http.ResponseWriter, r *http.Request) {
	location, err := parseLocation(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid location parameters", err)
		return
	}

	req := facility.Request{
		Location: location,
		Profile: profile.Profile{
			Gender:             r.URL.Query().Get("gender"),
			PreferredSports:    sport.SplitList(r.URL.Query().Get("sports")),
			PreferredIntensity: r.URL.Query().Get("intensity"),
		},
	}

	if ageStr := r.URL.Query().Get("age"); ageStr != "" {
		age, err := strconv.Atoi(ageStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid age", err)
			return
		}
		req.Profile.Age = age
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		req.Limit = limit
	}

	// An explicit indoor_only pins the gate; otherwise the weather decides.
	if indoorStr := r.URL.Query().Get("indoor_only"); indoorStr != "" {
		indoorOnly, err := strconv.ParseBool(indoorStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid indoor_only", err)
			return
		}
		req.IndoorOnly = &indoorOnly
	}

	recommendation, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to recommend facilities", err)
		return
	}

	respondWithJSON(w, http.StatusOK, recommendation)
}
