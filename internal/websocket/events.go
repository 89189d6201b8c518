package websocket

import (
	"go.uber.org/zap"

	"github.com/campmatch/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events. A nil broadcaster
// is safe to call; services hold one only when a hub is wired in.
type EventBroadcaster struct {
	hub    *Hub
	logger *zap.Logger
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub, logger *zap.Logger) *EventBroadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBroadcaster{hub: hub, logger: logger}
}

// BroadcastBookingCreated sends a booking.created event.
func (b *EventBroadcaster) BroadcastBookingCreated(booking models.Booking) {
	if b == nil {
		return
	}
	b.broadcast(NewMessage(TypeBookingCreated, BookingPayload{
		BookingID: booking.ID,
		Username:  booking.Username,
		CampID:    booking.CampID,
		CampName:  booking.CampName,
		FromDate:  booking.FromDate,
		ToDate:    booking.ToDate,
	}))
}

// BroadcastBookingStatusChanged sends a booking.status_changed event.
func (b *EventBroadcaster) BroadcastBookingStatusChanged(booking models.Booking, previousStatus string) {
	if b == nil {
		return
	}
	b.broadcast(NewMessage(TypeBookingStatusChanged, BookingStatusPayload{
		BookingID:      booking.ID,
		CampID:         booking.CampID,
		CampName:       booking.CampName,
		PreviousStatus: previousStatus,
		NewStatus:      booking.Status,
	}))
}

// BroadcastListingStatusChanged sends a listing.status_changed event.
func (b *EventBroadcaster) BroadcastListingStatusChanged(campID, campName, status string) {
	if b == nil {
		return
	}
	b.broadcast(NewMessage(TypeListingStatusChanged, ListingStatusPayload{
		CampID:   campID,
		CampName: campName,
		Status:   status,
	}))
}

// BroadcastCatalogSyncCompleted sends a catalog.sync_completed event.
func (b *EventBroadcaster) BroadcastCatalogSyncCompleted(result models.CatalogSyncResult) {
	if b == nil {
		return
	}
	payload := CatalogSyncPayload{
		Status:             "success",
		CampgroundsCreated: result.CampgroundsCreated,
		CampgroundsUpdated: result.CampgroundsUpdated,
		UsersCreated:       result.UsersCreated,
		BookingsCreated:    result.BookingsCreated,
	}
	if result.Error != nil {
		payload.Status = "error"
	}
	b.broadcast(NewMessage(TypeCatalogSyncCompleted, payload))
}

// BroadcastNotification sends a user-facing notification event.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	if b == nil {
		return
	}
	b.broadcast(NewMessage(TypeNotification, NotificationPayload{
		Level:   level,
		Title:   title,
		Message: message,
	}))
}

// BroadcastCatalogSyncError sends a catalog.sync_error event.
func (b *EventBroadcaster) BroadcastCatalogSyncError(err error) {
	if b == nil {
		return
	}
	b.broadcast(NewMessage(TypeCatalogSyncError, CatalogSyncErrorPayload{
		Error:   "sync_error",
		Message: err.Error(),
	}))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	if b.hub == nil {
		return
	}
	data, err := msg.JSON()
	if err != nil {
		b.logger.Error("marshaling websocket message", zap.Error(err), zap.String("type", string(msg.Type)))
		return
	}
	b.hub.Broadcast(data)
}
