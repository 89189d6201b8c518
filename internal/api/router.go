// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/campmatch/backend/internal/api/handlers"
	"github.com/campmatch/backend/internal/api/middleware"
	"github.com/campmatch/backend/internal/booking"
	"github.com/campmatch/backend/internal/search"
	"github.com/campmatch/backend/internal/storage"
	"github.com/campmatch/backend/internal/websocket"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	DB             *storage.DB
	Hub            *websocket.Hub
	Broadcaster    *websocket.EventBroadcaster
	CampgroundRepo *storage.CampgroundRepository
	UserRepo       *storage.UserRepository
	SearchService  *search.Service
	BookingService *booking.Service
	StaticDir      string
	Logger         *zap.Logger
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging(d.Logger))
	r.Use(middleware.ErrorRecovery(d.Logger))

	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(d.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(d.DB, d.Hub)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(d.Hub, d.Logger)).Methods("GET")

	// Search endpoints
	api.HandleFunc("/search", handlers.Search(d.SearchService)).Methods("POST")
	api.HandleFunc("/recommendations", handlers.Recommend(d.SearchService)).Methods("POST")

	// Campground endpoints
	api.HandleFunc("/campgrounds", handlers.ListCampgrounds(d.CampgroundRepo)).Methods("GET")
	api.HandleFunc("/campgrounds", handlers.CreateCampground(d.CampgroundRepo)).Methods("POST")
	api.HandleFunc("/campgrounds/{id}", handlers.GetCampground(d.CampgroundRepo)).Methods("GET")
	api.HandleFunc("/campgrounds/{id}", handlers.UpdateCampground(d.CampgroundRepo)).Methods("PUT")
	api.HandleFunc("/campgrounds/{id}", handlers.DeleteCampground(d.CampgroundRepo)).Methods("DELETE")
	api.HandleFunc("/campgrounds/{id}/status", handlers.SetCampgroundStatus(d.CampgroundRepo, d.Broadcaster)).Methods("PATCH")
	api.HandleFunc("/campgrounds/{id}/availability", handlers.CheckAvailability(d.BookingService)).Methods("GET")
	api.HandleFunc("/campgrounds/{id}/bookings", handlers.ListCampgroundBookings(d.BookingService)).Methods("GET")
	api.HandleFunc("/owners/{ownerID}/campgrounds", handlers.ListOwnerCampgrounds(d.CampgroundRepo)).Methods("GET")

	// User endpoints
	api.HandleFunc("/users", handlers.CreateUser(d.UserRepo)).Methods("POST")
	api.HandleFunc("/users/{username}", handlers.GetUser(d.UserRepo)).Methods("GET")
	api.HandleFunc("/users/{username}/favorites", handlers.ListFavorites(d.UserRepo, d.CampgroundRepo)).Methods("GET")
	api.HandleFunc("/users/{username}/favorites", handlers.AddFavorite(d.UserRepo, d.CampgroundRepo)).Methods("POST")
	api.HandleFunc("/users/{username}/favorites/{name}", handlers.RemoveFavorite(d.UserRepo)).Methods("DELETE")
	api.HandleFunc("/users/{username}/history", handlers.GetHistory(d.UserRepo)).Methods("GET")

	// Cart and booking endpoints
	api.HandleFunc("/users/{username}/cart", handlers.GetCart(d.BookingService)).Methods("GET")
	api.HandleFunc("/users/{username}/cart", handlers.AddToCart(d.BookingService)).Methods("POST")
	api.HandleFunc("/users/{username}/cart", handlers.ClearCart(d.BookingService)).Methods("DELETE")
	api.HandleFunc("/users/{username}/cart/checkout", handlers.Checkout(d.BookingService)).Methods("POST")
	api.HandleFunc("/users/{username}/bookings", handlers.ListUserBookings(d.BookingService)).Methods("GET")

	// Serve static frontend files when configured
	if d.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(d.StaticDir)))
	}

	return r
}
