package models

import (
	"time"
)

// Booking status constants - transitions are driven by the status scheduler.
const (
	BookingStatusUpcoming  = "upcoming"  // Check-in date not yet reached
	BookingStatusActive    = "active"    // Stay currently in progress
	BookingStatusCompleted = "completed" // Past check-out date
)

// Booking represents a confirmed reservation for a campground.
// FromDate and ToDate are inclusive YYYY-MM-DD strings.
type Booking struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CampID    string    `json:"camp_id"`
	CampName  string    `json:"camp_name"`
	FromDate  string    `json:"from_date"`
	ToDate    string    `json:"to_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem is a pending reservation held for a user before checkout.
type CartItem struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CampID    string    `json:"camp_id"`
	CampName  string    `json:"camp_name"`
	FromDate  string    `json:"from_date"`
	ToDate    string    `json:"to_date"`
	CreatedAt time.Time `json:"created_at"`
}
