package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/campmatch/backend/internal/websocket"
)

// Scheduler re-imports the seed directory on a fixed interval so edits to the
// JSON files show up without a restart.
type Scheduler struct {
	importer    *Importer
	broadcaster *websocket.EventBroadcaster
	seedDir     string
	interval    time.Duration
	logger      *zap.Logger
	cron        *cron.Cron
}

// NewScheduler creates a catalog sync scheduler.
func NewScheduler(
	importer *Importer,
	broadcaster *websocket.EventBroadcaster,
	seedDir string,
	interval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		importer:    importer,
		broadcaster: broadcaster,
		seedDir:     seedDir,
		interval:    interval,
		logger:      logger,
		cron:        cron.New(cron.WithSeconds()),
	}
}

// Start begins the periodic sync.
func (s *Scheduler) Start() error {
	spec := "@every " + s.interval.String()
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("catalog sync scheduler started",
		zap.String("seed_dir", s.seedDir),
		zap.Duration("interval", s.interval),
	)
	return nil
}

// Stop halts the scheduler and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("catalog sync scheduler stopped")
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := s.importer.Import(ctx, s.seedDir)
	if err != nil {
		s.logger.Error("catalog sync failed", zap.Error(err))
		s.broadcaster.BroadcastCatalogSyncError(err)
		return
	}

	s.broadcaster.BroadcastCatalogSyncCompleted(*result)

	if result.CampgroundsCreated+result.UsersCreated+result.BookingsCreated > 0 {
		s.broadcaster.BroadcastNotification("info", "Catalog updated",
			fmt.Sprintf("%d new campgrounds, %d new users, %d new bookings",
				result.CampgroundsCreated, result.UsersCreated, result.BookingsCreated))
	}
}
