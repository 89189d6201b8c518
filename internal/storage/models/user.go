package models

import (
	"time"
)

// User type constants
const (
	UserTypeCamper = "Camper"
	UserTypeOwner  = "Owner"
)

// User represents a registered user. Favorites holds campground names
// (matched case-insensitively); History holds past search queries, oldest first.
type User struct {
	Username  string    `json:"username"`
	Type      string    `json:"type"`
	Favorites []string  `json:"favorites,omitempty"`
	History   []string  `json:"history,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
