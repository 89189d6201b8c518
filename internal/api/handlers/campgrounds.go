package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/campmatch/backend/internal/api/middleware"
	"github.com/campmatch/backend/internal/booking"
	"github.com/campmatch/backend/internal/recommend"
	"github.com/campmatch/backend/internal/storage"
	"github.com/campmatch/backend/internal/storage/models"
	"github.com/campmatch/backend/internal/websocket"
)

// CampgroundRequest is the payload for creating or updating a listing.
type CampgroundRequest struct {
	Name       string   `json:"name" validate:"required"`
	Location   string   `json:"location" validate:"required"`
	Type       string   `json:"type" validate:"required"`
	Activities []string `json:"activities"`
	Amenities  []string `json:"amenities"`
	OwnerID    string   `json:"owner_id" validate:"required"`
}

// ListCampgrounds returns the full catalog with booked date ranges attached.
func ListCampgrounds(repo *storage.CampgroundRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		camps, err := repo.ListWithBookings(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query campgrounds")
			return
		}
		if camps == nil {
			camps = []models.Campground{}
		}
		writeJSON(w, http.StatusOK, camps)
	}
}

// GetCampground returns one listing by ID.
func GetCampground(repo *storage.CampgroundRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		camp, err := repo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query campground")
			return
		}
		if camp == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Campground not found")
			return
		}
		writeJSON(w, http.StatusOK, camp)
	}
}

// CreateCampground creates a new listing. Names are unique case-insensitively.
func CreateCampground(repo *storage.CampgroundRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req CampgroundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "Missing required fields", err.Error())
			return
		}

		existing, err := repo.GetByName(ctx, req.Name)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to check listing name")
			return
		}
		if existing != nil {
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "A campground with this name already exists")
			return
		}

		camp := &models.Campground{
			Name:       req.Name,
			Location:   req.Location,
			Type:       req.Type,
			Activities: req.Activities,
			Amenities:  req.Amenities,
			OwnerID:    req.OwnerID,
		}
		if err := repo.Create(ctx, camp); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create campground")
			return
		}

		writeJSON(w, http.StatusCreated, camp)
	}
}

// UpdateCampground overwrites the mutable fields of a listing.
func UpdateCampground(repo *storage.CampgroundRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := mux.Vars(r)["id"]

		camp, err := repo.GetByID(ctx, id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query campground")
			return
		}
		if camp == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Campground not found")
			return
		}

		var req CampgroundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "Missing required fields", err.Error())
			return
		}

		if !camp.NameEquals(req.Name) {
			existing, err := repo.GetByName(ctx, req.Name)
			if err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to check listing name")
				return
			}
			if existing != nil && existing.ID != id {
				middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "A campground with this name already exists")
				return
			}
		}

		camp.Name = req.Name
		camp.Location = req.Location
		camp.Type = req.Type
		camp.Activities = req.Activities
		camp.Amenities = req.Amenities
		camp.OwnerID = req.OwnerID

		if err := repo.Update(ctx, camp); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update campground")
			return
		}

		writeJSON(w, http.StatusOK, camp)
	}
}

// SetCampgroundStatus flips a listing between Active and Inactive.
func SetCampgroundStatus(repo *storage.CampgroundRepository, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := mux.Vars(r)["id"]

		var req struct {
			Status string `json:"status" validate:"required,oneof=Active Inactive"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Status must be Active or Inactive")
			return
		}

		camp, err := repo.GetByID(ctx, id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query campground")
			return
		}
		if camp == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Campground not found")
			return
		}

		if err := repo.SetStatus(ctx, id, req.Status); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update status")
			return
		}

		broadcaster.BroadcastListingStatusChanged(camp.ID, camp.Name, req.Status)

		camp.Status = req.Status
		writeJSON(w, http.StatusOK, camp)
	}
}

// DeleteCampground removes a listing and its bookings.
func DeleteCampground(repo *storage.CampgroundRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := mux.Vars(r)["id"]

		camp, err := repo.GetByID(ctx, id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query campground")
			return
		}
		if camp == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Campground not found")
			return
		}

		if err := repo.Delete(ctx, id); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete campground")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ListOwnerCampgrounds returns all listings managed by one owner.
func ListOwnerCampgrounds(repo *storage.CampgroundRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		camps, err := repo.ListByOwner(r.Context(), mux.Vars(r)["ownerID"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query campgrounds")
			return
		}
		if camps == nil {
			camps = []models.Campground{}
		}
		writeJSON(w, http.StatusOK, camps)
	}
}

// CheckAvailability reports whether a listing is free for an inclusive range.
func CheckAvailability(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")

		if from == "" || to == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Query parameters 'from' and 'to' are required")
			return
		}

		available, err := svc.IsAvailable(r.Context(), id, from, to)
		if err != nil {
			var parseErr *recommend.ParseError
			switch {
			case errors.Is(err, booking.ErrCampgroundNotFound):
				middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Campground not found")
			case errors.As(err, &parseErr):
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, parseErr.Error())
			default:
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to check availability")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"camp_id":   id,
			"from_date": from,
			"to_date":   to,
			"available": available,
		})
	}
}
