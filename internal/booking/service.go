// Package booking implements the cart and checkout flow on top of the
// availability rules in the recommend package.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/campmatch/backend/internal/recommend"
	"github.com/campmatch/backend/internal/storage"
	"github.com/campmatch/backend/internal/storage/models"
	"github.com/campmatch/backend/internal/websocket"
)

var (
	// ErrCampgroundNotFound is returned when the requested listing does not exist.
	ErrCampgroundNotFound = errors.New("campground not found")
	// ErrCampgroundInactive is returned when the listing exists but is not bookable.
	ErrCampgroundInactive = errors.New("campground is not active")
	// ErrUnavailable is returned when the requested dates overlap an existing booking.
	ErrUnavailable = errors.New("campground is not available for the requested dates")
	// ErrCartOverlap is returned when the requested dates overlap an item already in the cart.
	ErrCartOverlap = errors.New("dates overlap an item already in the cart")
	// ErrDateOrder is returned when the end date precedes the start date.
	ErrDateOrder = errors.New("to date is before from date")
	// ErrEmptyCart is returned when checkout is attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// Service coordinates carts, availability checks and checkout.
type Service struct {
	db          *storage.DB
	campRepo    *storage.CampgroundRepository
	bookingRepo *storage.BookingRepository
	cartRepo    *storage.CartRepository
	broadcaster *websocket.EventBroadcaster
	logger      *zap.Logger
}

// NewService creates a booking service. The broadcaster may be nil.
func NewService(
	db *storage.DB,
	campRepo *storage.CampgroundRepository,
	bookingRepo *storage.BookingRepository,
	cartRepo *storage.CartRepository,
	broadcaster *websocket.EventBroadcaster,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:          db,
		campRepo:    campRepo,
		bookingRepo: bookingRepo,
		cartRepo:    cartRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// IsAvailable reports whether the campground is free for the inclusive date
// range. Malformed dates surface as *recommend.ParseError.
func (s *Service) IsAvailable(ctx context.Context, campID, fromDate, toDate string) (bool, error) {
	camp, err := s.campRepo.GetByID(ctx, campID)
	if err != nil {
		return false, err
	}
	if camp == nil {
		return false, ErrCampgroundNotFound
	}

	bookings, err := s.bookingRepo.ListByCampground(ctx, campID)
	if err != nil {
		return false, err
	}

	return recommend.IsAvailable(campID, fromDate, toDate, bookings)
}

// AddToCart validates the requested stay and places it in the user's cart.
// The listing must exist and be Active, the dates must be well-formed and
// ordered, the range must not overlap a confirmed booking, and it must not
// overlap another cart item for the same campground.
func (s *Service) AddToCart(ctx context.Context, username, campID, fromDate, toDate string) (*models.CartItem, error) {
	from, err := recommend.ParseDate(fromDate)
	if err != nil {
		return nil, err
	}
	to, err := recommend.ParseDate(toDate)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, ErrDateOrder
	}

	camp, err := s.campRepo.GetByID(ctx, campID)
	if err != nil {
		return nil, err
	}
	if camp == nil {
		return nil, ErrCampgroundNotFound
	}
	if !camp.IsActive() {
		return nil, ErrCampgroundInactive
	}

	bookings, err := s.bookingRepo.ListByCampground(ctx, campID)
	if err != nil {
		return nil, err
	}
	available, err := recommend.IsAvailable(campID, fromDate, toDate, bookings)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrUnavailable
	}

	items, err := s.cartRepo.ListByUser(ctx, username)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.CampID != campID {
			continue
		}
		overlap, err := recommend.RangesOverlap(item.FromDate, item.ToDate, fromDate, toDate)
		if err != nil {
			return nil, err
		}
		if overlap {
			return nil, ErrCartOverlap
		}
	}

	item := &models.CartItem{
		Username: username,
		CampID:   campID,
		CampName: camp.Name,
		FromDate: fromDate,
		ToDate:   toDate,
	}
	if err := s.cartRepo.Add(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("cart item added",
		zap.String("username", username),
		zap.String("camp_id", campID),
		zap.String("from", fromDate),
		zap.String("to", toDate),
	)

	return item, nil
}

// Cart retrieves the user's pending reservations.
func (s *Service) Cart(ctx context.Context, username string) ([]models.CartItem, error) {
	return s.cartRepo.ListByUser(ctx, username)
}

// ClearCart empties the user's cart without booking anything.
func (s *Service) ClearCart(ctx context.Context, username string) error {
	return s.cartRepo.Clear(ctx, username)
}

// Checkout converts every cart item into a confirmed booking and clears the
// cart, all in one transaction. Availability is re-checked per item so a
// booking made since the item was added fails the whole checkout.
func (s *Service) Checkout(ctx context.Context, username string) ([]models.Booking, error) {
	items, err := s.cartRepo.ListByUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	for _, item := range items {
		bookings, err := s.bookingRepo.ListByCampground(ctx, item.CampID)
		if err != nil {
			return nil, err
		}
		available, err := recommend.IsAvailable(item.CampID, item.FromDate, item.ToDate, bookings)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, fmt.Errorf("%w: %s %s to %s", ErrUnavailable, item.CampName, item.FromDate, item.ToDate)
		}
	}

	booked := make([]models.Booking, 0, len(items))
	err = s.db.Transaction(func(tx *sql.Tx) error {
		for _, item := range items {
			booking := &models.Booking{
				Username: item.Username,
				CampID:   item.CampID,
				CampName: item.CampName,
				FromDate: item.FromDate,
				ToDate:   item.ToDate,
			}
			if err := s.bookingRepo.CreateIn(ctx, tx, booking); err != nil {
				return err
			}
			booked = append(booked, *booking)
		}
		return s.cartRepo.ClearIn(ctx, tx, username)
	})
	if err != nil {
		return nil, err
	}

	for _, b := range booked {
		s.broadcaster.BroadcastBookingCreated(b)
	}

	s.logger.Info("checkout complete",
		zap.String("username", username),
		zap.Int("bookings", len(booked)),
	)

	return booked, nil
}

// BookingsForUser retrieves the user's bookings.
func (s *Service) BookingsForUser(ctx context.Context, username string) ([]models.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, username)
}

// BookingsForCampground retrieves all bookings for one listing.
func (s *Service) BookingsForCampground(ctx context.Context, campID string) ([]models.Booking, error) {
	return s.bookingRepo.ListByCampground(ctx, campID)
}
