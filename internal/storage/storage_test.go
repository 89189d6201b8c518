package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campmatch/backend/internal/storage/models"
)

var errAbort = errors.New("abort")

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db, nil))
	return db
}

func TestCampgroundRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCampgroundRepository(newTestDB(t))

	camp := &models.Campground{
		Name:       "Misty Pines",
		Location:   "Kerala",
		Type:       "tent",
		Activities: []string{"hiking", "bonfire"},
		Amenities:  []string{"water"},
		OwnerID:    "owner1",
	}
	require.NoError(t, repo.Create(ctx, camp))
	assert.NotEmpty(t, camp.ID)
	assert.Equal(t, models.CampgroundStatusActive, camp.Status)

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, camp.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Misty Pines", got.Name)
		assert.Equal(t, []string{"hiking", "bonfire"}, got.Activities)
	})

	t.Run("get by name is case-insensitive", func(t *testing.T) {
		got, err := repo.GetByName(ctx, "MISTY pines")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, camp.ID, got.ID)
	})

	t.Run("missing rows return nil", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("update", func(t *testing.T) {
		camp.Location = "Rajasthan"
		require.NoError(t, repo.Update(ctx, camp))

		got, err := repo.GetByID(ctx, camp.ID)
		require.NoError(t, err)
		assert.Equal(t, "Rajasthan", got.Location)
	})

	t.Run("upsert matches by name", func(t *testing.T) {
		created, err := repo.Upsert(ctx, &models.Campground{Name: "misty PINES", Location: "Kerala", Type: "cabin"})
		require.NoError(t, err)
		assert.False(t, created)

		created, err = repo.Upsert(ctx, &models.Campground{Name: "Dune Base", Location: "Rajasthan", Type: "rv"})
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		camps, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, camps, 2)
		assert.Equal(t, camp.ID, camps[0].ID)
		assert.Equal(t, "Dune Base", camps[1].Name)
	})

	t.Run("set status", func(t *testing.T) {
		require.NoError(t, repo.SetStatus(ctx, camp.ID, models.CampgroundStatusInactive))
		got, err := repo.GetByID(ctx, camp.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive())

		assert.Error(t, repo.SetStatus(ctx, "nope", models.CampgroundStatusActive))
	})

	t.Run("list by names skips unknown", func(t *testing.T) {
		camps, err := repo.ListByNames(ctx, []string{"dune base", "Nowhere"})
		require.NoError(t, err)
		require.Len(t, camps, 1)
		assert.Equal(t, "Dune Base", camps[0].Name)
	})
}

func TestCampgroundRepository_ListWithBookings(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	camps := NewCampgroundRepository(db)
	users := NewUserRepository(db)
	bookings := NewBookingRepository(db)

	require.NoError(t, users.Create(ctx, &models.User{Username: "alice"}))

	camp := &models.Campground{Name: "Misty Pines", Location: "Kerala", Type: "tent"}
	require.NoError(t, camps.Create(ctx, camp))

	require.NoError(t, bookings.Create(ctx, &models.Booking{
		Username: "alice", CampID: camp.ID, CampName: camp.Name,
		FromDate: "2024-06-01", ToDate: "2024-06-05",
	}))

	got, err := camps.ListWithBookings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Bookings, 1)
	assert.Equal(t, models.DateRange{From: "2024-06-01", To: "2024-06-05"}, got[0].Bookings[0])
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	camps := NewCampgroundRepository(db)
	users := NewUserRepository(db)
	repo := NewBookingRepository(db)

	require.NoError(t, users.Create(ctx, &models.User{Username: "alice"}))
	camp := &models.Campground{Name: "Misty Pines", Location: "Kerala", Type: "tent"}
	require.NoError(t, camps.Create(ctx, camp))

	booking := &models.Booking{
		Username: "alice", CampID: camp.ID, CampName: camp.Name,
		FromDate: "2024-06-01", ToDate: "2024-06-05",
	}
	require.NoError(t, repo.Create(ctx, booking))
	assert.Equal(t, models.BookingStatusUpcoming, booking.Status)

	t.Run("exists", func(t *testing.T) {
		ok, err := repo.Exists(ctx, booking)
		require.NoError(t, err)
		assert.True(t, ok)

		other := *booking
		other.FromDate = "2024-07-01"
		ok, err = repo.Exists(ctx, &other)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("status transitions", func(t *testing.T) {
		due, err := repo.DueActivations(ctx, "2024-06-03")
		require.NoError(t, err)
		require.Len(t, due, 1)

		require.NoError(t, repo.UpdateStatus(ctx, booking.ID, models.BookingStatusActive))

		due, err = repo.DueActivations(ctx, "2024-06-03")
		require.NoError(t, err)
		assert.Empty(t, due)

		completions, err := repo.DueCompletions(ctx, "2024-06-06")
		require.NoError(t, err)
		require.Len(t, completions, 1)

		require.NoError(t, repo.UpdateStatus(ctx, booking.ID, models.BookingStatusCompleted))

		completions, err = repo.DueCompletions(ctx, "2024-06-06")
		require.NoError(t, err)
		assert.Empty(t, completions)
	})

	t.Run("delete cascades from campground", func(t *testing.T) {
		require.NoError(t, camps.Delete(ctx, camp.ID))

		left, err := repo.ListByCampground(ctx, camp.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := &models.User{Username: "alice"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, models.UserTypeCamper, user.Type)

	t.Run("favorites dedupe case-insensitively", func(t *testing.T) {
		require.NoError(t, repo.AddFavorite(ctx, "alice", "Misty Pines"))
		require.NoError(t, repo.AddFavorite(ctx, "alice", "MISTY PINES"))

		favs, err := repo.Favorites(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"Misty Pines"}, favs)

		require.NoError(t, repo.RemoveFavorite(ctx, "alice", "misty pines"))
		favs, err = repo.Favorites(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, favs)
	})

	t.Run("history keeps insertion order and duplicates", func(t *testing.T) {
		require.NoError(t, repo.AppendHistory(ctx, "alice", "tent in kerala"))
		require.NoError(t, repo.AppendHistory(ctx, "alice", "cabin with wi-fi"))
		require.NoError(t, repo.AppendHistory(ctx, "alice", "tent in kerala"))

		history, err := repo.History(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"tent in kerala", "cabin with wi-fi", "tent in kerala"}, history)
	})

	t.Run("get attaches favorites and history", func(t *testing.T) {
		require.NoError(t, repo.AddFavorite(ctx, "alice", "Dune Base"))

		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []string{"Dune Base"}, got.Favorites)
		assert.Len(t, got.History, 3)
	})

	t.Run("unknown user is nil", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	carts := NewCartRepository(db)
	camps := NewCampgroundRepository(db)

	require.NoError(t, users.Create(ctx, &models.User{Username: "alice"}))
	camp := &models.Campground{Name: "Misty Pines", Location: "Kerala", Type: "tent"}
	require.NoError(t, camps.Create(ctx, camp))

	require.NoError(t, carts.Add(ctx, &models.CartItem{
		Username: "alice", CampID: camp.ID, CampName: camp.Name,
		FromDate: "2024-06-01", ToDate: "2024-06-05",
	}))

	err := db.Transaction(func(tx *sql.Tx) error {
		if err := carts.ClearIn(ctx, tx, "alice"); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	items, err := carts.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
