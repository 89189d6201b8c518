package models

import (
	"strings"
	"time"
)

// Campground status constants
const (
	CampgroundStatusActive   = "Active"
	CampgroundStatusInactive = "Inactive"
)

// DateRange is an inclusive booking date span. Both endpoints count as
// occupied days: a range ending on day X conflicts with one starting on day X.
// Dates are YYYY-MM-DD strings.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Campground represents a bookable campground listing.
// Name is unique case-insensitively; Bookings mirrors the booking collection
// for this campground and is populated when a full catalog snapshot is loaded.
type Campground struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Location   string      `json:"location"`
	Type       string      `json:"type"`
	Activities []string    `json:"activities"`
	Amenities  []string    `json:"amenities"`
	Status     string      `json:"status"`
	OwnerID    string      `json:"owner_id"`
	Bookings   []DateRange `json:"bookings,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// IsActive returns true if the listing is eligible for matching.
func (c *Campground) IsActive() bool {
	return c.Status == CampgroundStatusActive
}

// NameEquals compares listing names the way lookups do: case-insensitively.
func (c *Campground) NameEquals(name string) bool {
	return strings.EqualFold(c.Name, name)
}

// CatalogSyncResult summarizes one seed-file import run.
type CatalogSyncResult struct {
	CampgroundsCreated int       `json:"campgrounds_created"`
	CampgroundsUpdated int       `json:"campgrounds_updated"`
	UsersCreated       int       `json:"users_created"`
	BookingsCreated    int       `json:"bookings_created"`
	SyncedAt           time.Time `json:"synced_at"`
	Error              error     `json:"-"`
}
