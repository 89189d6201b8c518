package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/campmatch/backend/internal/api/middleware"
	"github.com/campmatch/backend/internal/storage"
	"github.com/campmatch/backend/internal/storage/models"
)

// UserRequest is the payload for registering a user.
type UserRequest struct {
	Username string `json:"username" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=Camper Owner"`
}

// CreateUser registers a new user.
func CreateUser(repo *storage.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req UserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "Invalid user payload", err.Error())
			return
		}

		exists, err := repo.Exists(ctx, req.Username)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to check username")
			return
		}
		if exists {
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Username is already taken")
			return
		}

		user := &models.User{Username: req.Username, Type: req.Type}
		if err := repo.Create(ctx, user); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create user")
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

// GetUser returns a user with favorites and search history attached.
func GetUser(repo *storage.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := repo.GetByUsername(r.Context(), mux.Vars(r)["username"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query user")
			return
		}
		if user == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// ListFavorites resolves the user's favorites to full campground records.
// Favorites naming listings that no longer exist are silently skipped.
func ListFavorites(userRepo *storage.UserRepository, campRepo *storage.CampgroundRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		username := mux.Vars(r)["username"]

		names, err := userRepo.Favorites(ctx, username)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query favorites")
			return
		}

		camps, err := campRepo.ListByNames(ctx, names)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to resolve favorites")
			return
		}
		if camps == nil {
			camps = []models.Campground{}
		}
		writeJSON(w, http.StatusOK, camps)
	}
}

// AddFavorite records a favorite campground by name.
func AddFavorite(userRepo *storage.UserRepository, campRepo *storage.CampgroundRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		username := mux.Vars(r)["username"]

		var req struct {
			Name string `json:"name" validate:"required"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Campground name is required")
			return
		}

		camp, err := campRepo.GetByName(ctx, req.Name)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query campground")
			return
		}
		if camp == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Campground not found")
			return
		}

		if err := userRepo.AddFavorite(ctx, username, camp.Name); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to add favorite")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveFavorite deletes a favorite by campground name.
func RemoveFavorite(repo *storage.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if err := repo.RemoveFavorite(r.Context(), vars["username"], vars["name"]); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to remove favorite")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetHistory returns the user's past search queries, oldest first.
func GetHistory(repo *storage.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := repo.History(r.Context(), mux.Vars(r)["username"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query history")
			return
		}
		if history == nil {
			history = []string{}
		}
		writeJSON(w, http.StatusOK, history)
	}
}
