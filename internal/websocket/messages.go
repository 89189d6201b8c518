package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeBookingCreated       MessageType = "booking.created"
	TypeBookingStatusChanged MessageType = "booking.status_changed"
	TypeListingStatusChanged MessageType = "listing.status_changed"
	TypeCatalogSyncCompleted MessageType = "catalog.sync_completed"
	TypeCatalogSyncError     MessageType = "catalog.sync_error"
	TypeNotification         MessageType = "notification"

	// Client -> Server command types
	TypeSubscribe   MessageType = "subscribe"
	TypeUnsubscribe MessageType = "unsubscribe"
	TypePing        MessageType = "ping"

	// Server -> Client response types
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// BookingPayload is the payload for booking.created events.
type BookingPayload struct {
	BookingID string `json:"booking_id"`
	Username  string `json:"username"`
	CampID    string `json:"camp_id"`
	CampName  string `json:"camp_name"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
}

// BookingStatusPayload is the payload for booking.status_changed events.
type BookingStatusPayload struct {
	BookingID      string `json:"booking_id"`
	CampID         string `json:"camp_id"`
	CampName       string `json:"camp_name"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

// ListingStatusPayload is the payload for listing.status_changed events.
type ListingStatusPayload struct {
	CampID   string `json:"camp_id"`
	CampName string `json:"camp_name"`
	Status   string `json:"status"`
}

// CatalogSyncPayload is the payload for catalog.sync_completed events.
type CatalogSyncPayload struct {
	Status             string `json:"status"`
	CampgroundsCreated int    `json:"campgrounds_created"`
	CampgroundsUpdated int    `json:"campgrounds_updated"`
	UsersCreated       int    `json:"users_created"`
	BookingsCreated    int    `json:"bookings_created"`
}

// CatalogSyncErrorPayload is the payload for catalog.sync_error events.
type CatalogSyncErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level   string `json:"level"` // info, warning, error, success
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	OriginalType string `json:"original_type,omitempty"`
}
