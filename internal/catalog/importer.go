// Package catalog imports flat JSON seed files into the database and keeps
// them in sync on a schedule. The JSON files (campground.json, users.json,
// bookings.json) are the external persistence format inherited from the
// previous system; the service itself works off SQLite.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campmatch/backend/internal/storage"
	"github.com/campmatch/backend/internal/storage/models"
)

// Seed file names looked up under the seed directory.
const (
	CampgroundFile = "campground.json"
	UserFile       = "users.json"
	BookingFile    = "bookings.json"
)

// flexibleList accepts either a JSON array of strings or a single
// comma-separated string; the legacy listing editor wrote both shapes.
type flexibleList []string

func (f *flexibleList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}

	var out []string
	for _, part := range strings.Split(single, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*f = out
	return nil
}

type seedCampground struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Location   string       `json:"location"`
	Type       string       `json:"type"`
	Activities flexibleList `json:"activities"`
	Amenities  flexibleList `json:"amenities"`
	Status     string       `json:"status"`
	OwnerID    string       `json:"owner_id"`
}

type seedUser struct {
	Username  string   `json:"username"`
	Type      string   `json:"type"`
	Favorites []string `json:"favorites"`
	History   []string `json:"history"`
}

type seedBooking struct {
	Username string `json:"username"`
	CampID   string `json:"camp_id"`
	CampName string `json:"camp_name"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

// Importer loads seed files into the repositories.
type Importer struct {
	campRepo    *storage.CampgroundRepository
	userRepo    *storage.UserRepository
	bookingRepo *storage.BookingRepository
	logger      *zap.Logger
}

// NewImporter creates a catalog importer.
func NewImporter(
	campRepo *storage.CampgroundRepository,
	userRepo *storage.UserRepository,
	bookingRepo *storage.BookingRepository,
	logger *zap.Logger,
) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		campRepo:    campRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Import reads whichever seed files exist under dir and upserts their
// contents. Re-importing the same directory is idempotent: campgrounds are
// matched by name, users by username and bookings by their full tuple.
func (i *Importer) Import(ctx context.Context, dir string) (*models.CatalogSyncResult, error) {
	result := &models.CatalogSyncResult{SyncedAt: time.Now().UTC()}

	if err := i.importCampgrounds(ctx, filepath.Join(dir, CampgroundFile), result); err != nil {
		result.Error = err
		return result, err
	}
	if err := i.importUsers(ctx, filepath.Join(dir, UserFile), result); err != nil {
		result.Error = err
		return result, err
	}
	if err := i.importBookings(ctx, filepath.Join(dir, BookingFile), result); err != nil {
		result.Error = err
		return result, err
	}

	i.logger.Info("catalog import complete",
		zap.Int("campgrounds_created", result.CampgroundsCreated),
		zap.Int("campgrounds_updated", result.CampgroundsUpdated),
		zap.Int("users_created", result.UsersCreated),
		zap.Int("bookings_created", result.BookingsCreated),
	)

	return result, nil
}

func (i *Importer) importCampgrounds(ctx context.Context, path string, result *models.CatalogSyncResult) error {
	var seeds []seedCampground
	ok, err := readSeedFile(path, &seeds)
	if err != nil || !ok {
		return err
	}

	for _, s := range seeds {
		if s.Name == "" {
			i.logger.Warn("skipping campground seed without name", zap.String("id", s.ID))
			continue
		}

		camp := &models.Campground{
			ID:         s.ID,
			Name:       s.Name,
			Location:   s.Location,
			Type:       s.Type,
			Activities: s.Activities,
			Amenities:  s.Amenities,
			Status:     s.Status,
			OwnerID:    s.OwnerID,
		}

		created, err := i.campRepo.Upsert(ctx, camp)
		if err != nil {
			return fmt.Errorf("upserting campground %q: %w", s.Name, err)
		}
		if created {
			result.CampgroundsCreated++
		} else {
			result.CampgroundsUpdated++
		}
	}

	return nil
}

func (i *Importer) importUsers(ctx context.Context, path string, result *models.CatalogSyncResult) error {
	var seeds []seedUser
	ok, err := readSeedFile(path, &seeds)
	if err != nil || !ok {
		return err
	}

	for _, s := range seeds {
		if s.Username == "" {
			continue
		}

		exists, err := i.userRepo.Exists(ctx, s.Username)
		if err != nil {
			return err
		}
		if !exists {
			if err := i.userRepo.Create(ctx, &models.User{Username: s.Username, Type: s.Type}); err != nil {
				return fmt.Errorf("creating user %q: %w", s.Username, err)
			}
			result.UsersCreated++

			for _, query := range s.History {
				if err := i.userRepo.AppendHistory(ctx, s.Username, query); err != nil {
					return err
				}
			}
		}

		// Favorites are additive and duplicate-safe on every run.
		for _, fav := range s.Favorites {
			if err := i.userRepo.AddFavorite(ctx, s.Username, fav); err != nil {
				return err
			}
		}
	}

	return nil
}

func (i *Importer) importBookings(ctx context.Context, path string, result *models.CatalogSyncResult) error {
	var seeds []seedBooking
	ok, err := readSeedFile(path, &seeds)
	if err != nil || !ok {
		return err
	}

	for _, s := range seeds {
		booking := &models.Booking{
			Username: s.Username,
			CampID:   s.CampID,
			CampName: s.CampName,
			FromDate: s.FromDate,
			ToDate:   s.ToDate,
		}

		exists, err := i.bookingRepo.Exists(ctx, booking)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		if err := i.bookingRepo.Create(ctx, booking); err != nil {
			return fmt.Errorf("creating booking for %q: %w", s.CampID, err)
		}
		result.BookingsCreated++
	}

	return nil
}

// readSeedFile unmarshals a seed file into out. A missing file is not an
// error; it reports false and the section is skipped.
func readSeedFile(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading seed file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing seed file %s: %w", path, err)
	}

	return true, nil
}
