package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/campmatch/backend/internal/api/middleware"
	"github.com/campmatch/backend/internal/booking"
	"github.com/campmatch/backend/internal/recommend"
	"github.com/campmatch/backend/internal/storage/models"
)

// CartItemRequest is the payload for adding a stay to the cart.
type CartItemRequest struct {
	CampID   string `json:"camp_id" validate:"required"`
	FromDate string `json:"from_date" validate:"required"`
	ToDate   string `json:"to_date" validate:"required"`
}

// GetCart returns the user's pending reservations.
func GetCart(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Cart(r.Context(), mux.Vars(r)["username"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query cart")
			return
		}
		if items == nil {
			items = []models.CartItem{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// AddToCart places a validated stay in the user's cart.
func AddToCart(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := mux.Vars(r)["username"]

		var req CartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "Missing required fields", err.Error())
			return
		}

		item, err := svc.AddToCart(r.Context(), username, req.CampID, req.FromDate, req.ToDate)
		if err != nil {
			writeBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, item)
	}
}

// ClearCart empties the user's cart.
func ClearCart(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearCart(r.Context(), mux.Vars(r)["username"]); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to clear cart")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Checkout converts the user's cart into confirmed bookings.
func Checkout(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booked, err := svc.Checkout(r.Context(), mux.Vars(r)["username"])
		if err != nil {
			writeBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, booked)
	}
}

// ListUserBookings returns all bookings made by a user.
func ListUserBookings(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookings, err := svc.BookingsForUser(r.Context(), mux.Vars(r)["username"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query bookings")
			return
		}
		if bookings == nil {
			bookings = []models.Booking{}
		}
		writeJSON(w, http.StatusOK, bookings)
	}
}

// ListCampgroundBookings returns all bookings for one listing.
func ListCampgroundBookings(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookings, err := svc.BookingsForCampground(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query bookings")
			return
		}
		if bookings == nil {
			bookings = []models.Booking{}
		}
		writeJSON(w, http.StatusOK, bookings)
	}
}

func writeBookingError(w http.ResponseWriter, err error) {
	var parseErr *recommend.ParseError
	switch {
	case errors.Is(err, booking.ErrCampgroundNotFound):
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Campground not found")
	case errors.Is(err, booking.ErrCampgroundInactive):
		middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Campground is not active")
	case errors.Is(err, booking.ErrUnavailable):
		middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, err.Error())
	case errors.Is(err, booking.ErrCartOverlap):
		middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, err.Error())
	case errors.Is(err, booking.ErrDateOrder):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
	case errors.Is(err, booking.ErrEmptyCart):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, err.Error())
	case errors.As(err, &parseErr):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, parseErr.Error())
	default:
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Booking operation failed")
	}
}
