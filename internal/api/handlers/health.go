// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/campmatch/backend/internal/storage"
	"github.com/campmatch/backend/internal/websocket"
)

// validate checks request payload struct tags.
var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		code := http.StatusOK
		if !dbConnected {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		})
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	CampgroundsCount int `json:"campgrounds_count"`
	ActiveListings   int `json:"active_listings"`
	UsersCount       int `json:"users_count"`
	BookingsCount    int `json:"bookings_count"`
	ConnectedClients int `json:"connected_clients"`
}

// Status returns a handler that provides system status information.
func Status(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var resp StatusResponse
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM campgrounds").Scan(&resp.CampgroundsCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM campgrounds WHERE status = 'Active'").Scan(&resp.ActiveListings)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&resp.UsersCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&resp.BookingsCount)

		if hub != nil {
			resp.ConnectedClients = hub.ClientCount()
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
