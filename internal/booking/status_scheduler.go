package booking

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/campmatch/backend/internal/recommend"
	"github.com/campmatch/backend/internal/storage"
	"github.com/campmatch/backend/internal/storage/models"
	"github.com/campmatch/backend/internal/websocket"
)

// StatusScheduler advances booking lifecycle statuses on a schedule:
// upcoming -> active when the stay starts, anything -> completed after it ends.
type StatusScheduler struct {
	bookingRepo *storage.BookingRepository
	broadcaster *websocket.EventBroadcaster
	logger      *zap.Logger
	cron        *cron.Cron
}

// NewStatusScheduler creates a booking status scheduler.
func NewStatusScheduler(
	bookingRepo *storage.BookingRepository,
	broadcaster *websocket.EventBroadcaster,
	logger *zap.Logger,
) *StatusScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusScheduler{
		bookingRepo: bookingRepo,
		broadcaster: broadcaster,
		logger:      logger,
		cron:        cron.New(cron.WithSeconds()),
	}
}

// Start begins the periodic status sweep.
func (s *StatusScheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.Run); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("booking status scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *StatusScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("booking status scheduler stopped")
}

// Run performs one sweep. Exported so startup can run an immediate pass
// before the first tick.
func (s *StatusScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	today := time.Now().UTC().Format(recommend.DateLayout)

	if err := s.activate(ctx, today); err != nil {
		s.logger.Error("activating bookings", zap.Error(err))
	}
	if err := s.complete(ctx, today); err != nil {
		s.logger.Error("completing bookings", zap.Error(err))
	}
}

func (s *StatusScheduler) activate(ctx context.Context, today string) error {
	due, err := s.bookingRepo.DueActivations(ctx, today)
	if err != nil {
		return err
	}

	for _, b := range due {
		previous := b.Status
		if err := s.bookingRepo.UpdateStatus(ctx, b.ID, models.BookingStatusActive); err != nil {
			return err
		}
		b.Status = models.BookingStatusActive
		s.broadcaster.BroadcastBookingStatusChanged(b, previous)
		s.logger.Info("booking activated",
			zap.String("booking_id", b.ID),
			zap.String("camp_id", b.CampID),
		)
	}

	return nil
}

func (s *StatusScheduler) complete(ctx context.Context, today string) error {
	due, err := s.bookingRepo.DueCompletions(ctx, today)
	if err != nil {
		return err
	}

	for _, b := range due {
		previous := b.Status
		if err := s.bookingRepo.UpdateStatus(ctx, b.ID, models.BookingStatusCompleted); err != nil {
			return err
		}
		b.Status = models.BookingStatusCompleted
		s.broadcaster.BroadcastBookingStatusChanged(b, previous)
		s.logger.Info("booking completed",
			zap.String("booking_id", b.ID),
			zap.String("camp_id", b.CampID),
		)
	}

	return nil
}
