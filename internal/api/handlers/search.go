package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campmatch/backend/internal/api/middleware"
	"github.com/campmatch/backend/internal/recommend"
	"github.com/campmatch/backend/internal/search"
)

// SearchRequest is the payload for dated searches.
type SearchRequest struct {
	Username string `json:"username" validate:"required"`
	Query    string `json:"query" validate:"required"`
	FromDate string `json:"from_date" validate:"required"`
	ToDate   string `json:"to_date" validate:"required"`
}

// RecommendRequest is the payload for dateless recommendations.
type RecommendRequest struct {
	Username string `json:"username" validate:"required"`
	Query    string `json:"query" validate:"required"`
}

// MatchResponse represents one ranked campground in API responses.
type MatchResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Type       string   `json:"type"`
	Activities []string `json:"activities"`
	Amenities  []string `json:"amenities"`
	Score      int      `json:"score"`
}

func matchResponses(results []recommend.MatchResult) []MatchResponse {
	out := make([]MatchResponse, 0, len(results))
	for _, r := range results {
		out = append(out, MatchResponse{
			ID:         r.Campground.ID,
			Name:       r.Campground.Name,
			Location:   r.Campground.Location,
			Type:       r.Campground.Type,
			Activities: r.Campground.Activities,
			Amenities:  r.Campground.Amenities,
			Score:      r.Score,
		})
	}
	return out
}

// Search returns a handler for dated free-text searches.
func Search(svc *search.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "Missing required fields", err.Error())
			return
		}

		results, err := svc.Search(r.Context(), req.Username, req.Query, req.FromDate, req.ToDate)
		if err != nil {
			writeSearchError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, matchResponses(results))
	}
}

// Recommend returns a handler for dateless recommendations.
func Recommend(svc *search.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RecommendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "Missing required fields", err.Error())
			return
		}

		results, err := svc.Recommend(r.Context(), req.Username, req.Query)
		if err != nil {
			writeSearchError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, matchResponses(results))
	}
}

func writeSearchError(w http.ResponseWriter, err error) {
	var parseErr *recommend.ParseError
	switch {
	case errors.Is(err, search.ErrEmptyQuery),
		errors.Is(err, search.ErrMissingDates),
		errors.Is(err, search.ErrDateOrder):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
	case errors.As(err, &parseErr):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, parseErr.Error())
	case errors.Is(err, search.ErrNothingUnderstood):
		middleware.WriteError(w, http.StatusUnprocessableEntity, middleware.ErrValidation, err.Error())
	default:
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Search failed")
	}
}
