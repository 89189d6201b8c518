package booking

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campmatch/backend/internal/recommend"
	"github.com/campmatch/backend/internal/storage"
	"github.com/campmatch/backend/internal/storage/models"
)

type testEnv struct {
	db      *storage.DB
	service *Service
	camps   *storage.CampgroundRepository
	users   *storage.UserRepository
	books   *storage.BookingRepository
	carts   *storage.CartRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.RunMigrations(db, nil))

	camps := storage.NewCampgroundRepository(db)
	users := storage.NewUserRepository(db)
	books := storage.NewBookingRepository(db)
	carts := storage.NewCartRepository(db)

	return &testEnv{
		db:      db,
		service: NewService(db, camps, books, carts, nil, nil),
		camps:   camps,
		users:   users,
		books:   books,
		carts:   carts,
	}
}

func (e *testEnv) seed(t *testing.T, ctx context.Context) *models.Campground {
	t.Helper()

	require.NoError(t, e.users.Create(ctx, &models.User{Username: "alice"}))

	camp := &models.Campground{
		ID:       "C1",
		Name:     "Misty Pines",
		Location: "Kerala",
		Type:     "tent",
	}
	require.NoError(t, e.camps.Create(ctx, camp))
	return camp
}

func TestAddToCart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, ctx)

	item, err := env.service.AddToCart(ctx, "alice", "C1", "2024-06-01", "2024-06-05")
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Misty Pines", item.CampName)

	cart, err := env.service.Cart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "2024-06-01", cart[0].FromDate)
}

func TestAddToCart_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	camp := env.seed(t, ctx)

	t.Run("unknown campground", func(t *testing.T) {
		_, err := env.service.AddToCart(ctx, "alice", "missing", "2024-06-01", "2024-06-05")
		assert.ErrorIs(t, err, ErrCampgroundNotFound)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := env.service.AddToCart(ctx, "alice", "C1", "01-06-2024", "2024-06-05")
		var parseErr *recommend.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("reversed dates", func(t *testing.T) {
		_, err := env.service.AddToCart(ctx, "alice", "C1", "2024-06-05", "2024-06-01")
		assert.ErrorIs(t, err, ErrDateOrder)
	})

	t.Run("inactive listing", func(t *testing.T) {
		require.NoError(t, env.camps.SetStatus(ctx, camp.ID, models.CampgroundStatusInactive))
		_, err := env.service.AddToCart(ctx, "alice", "C1", "2024-06-01", "2024-06-05")
		assert.ErrorIs(t, err, ErrCampgroundInactive)
		require.NoError(t, env.camps.SetStatus(ctx, camp.ID, models.CampgroundStatusActive))
	})
}

func TestAddToCart_BookingConflict(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, ctx)

	require.NoError(t, env.books.Create(ctx, &models.Booking{
		Username: "alice", CampID: "C1", CampName: "Misty Pines",
		FromDate: "2024-06-04", ToDate: "2024-06-10",
	}))

	_, err := env.service.AddToCart(ctx, "alice", "C1", "2024-06-01", "2024-06-05")
	assert.ErrorIs(t, err, ErrUnavailable)

	// Adjacent but not overlapping is fine; endpoints are inclusive.
	_, err = env.service.AddToCart(ctx, "alice", "C1", "2024-06-01", "2024-06-03")
	assert.NoError(t, err)

	_, err = env.service.AddToCart(ctx, "alice", "C1", "2024-06-10", "2024-06-12")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAddToCart_CartOverlap(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, ctx)

	_, err := env.service.AddToCart(ctx, "alice", "C1", "2024-06-01", "2024-06-05")
	require.NoError(t, err)

	_, err = env.service.AddToCart(ctx, "alice", "C1", "2024-06-05", "2024-06-08")
	assert.ErrorIs(t, err, ErrCartOverlap)

	_, err = env.service.AddToCart(ctx, "alice", "C1", "2024-06-06", "2024-06-08")
	assert.NoError(t, err)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, ctx)

	_, err := env.service.AddToCart(ctx, "alice", "C1", "2024-06-01", "2024-06-05")
	require.NoError(t, err)
	_, err = env.service.AddToCart(ctx, "alice", "C1", "2024-06-10", "2024-06-12")
	require.NoError(t, err)

	booked, err := env.service.Checkout(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, booked, 2)
	for _, b := range booked {
		assert.Equal(t, models.BookingStatusUpcoming, b.Status)
		assert.NotEmpty(t, b.ID)
	}

	cart, err := env.service.Cart(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, cart)

	bookings, err := env.service.BookingsForCampground(ctx, "C1")
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestCheckout_EmptyCart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, ctx)

	_, err := env.service.Checkout(ctx, "alice")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_ConflictRollsBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, ctx)

	_, err := env.service.AddToCart(ctx, "alice", "C1", "2024-06-01", "2024-06-05")
	require.NoError(t, err)

	// Someone books the same window after the item was added.
	require.NoError(t, env.books.Create(ctx, &models.Booking{
		Username: "alice", CampID: "C1", CampName: "Misty Pines",
		FromDate: "2024-06-03", ToDate: "2024-06-04",
	}))

	_, err = env.service.Checkout(ctx, "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))

	// Cart item is kept so the user can adjust dates.
	cart, err := env.service.Cart(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, cart, 1)

	bookings, err := env.service.BookingsForCampground(ctx, "C1")
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestIsAvailable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, ctx)

	require.NoError(t, env.books.Create(ctx, &models.Booking{
		Username: "alice", CampID: "C1", CampName: "Misty Pines",
		FromDate: "2024-06-04", ToDate: "2024-06-10",
	}))

	ok, err := env.service.IsAvailable(ctx, "C1", "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.service.IsAvailable(ctx, "C1", "2024-06-01", "2024-06-05")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.service.IsAvailable(ctx, "missing", "2024-06-01", "2024-06-03")
	assert.ErrorIs(t, err, ErrCampgroundNotFound)
}

func TestStatusSchedulerSweep(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, ctx)

	past := &models.Booking{
		Username: "alice", CampID: "C1", CampName: "Misty Pines",
		FromDate: "2000-01-01", ToDate: "2000-01-05",
	}
	require.NoError(t, env.books.Create(ctx, past))

	current := &models.Booking{
		Username: "alice", CampID: "C1", CampName: "Misty Pines",
		FromDate: "2000-01-01", ToDate: "2999-12-31",
	}
	require.NoError(t, env.books.Create(ctx, current))

	scheduler := NewStatusScheduler(env.books, nil, nil)
	scheduler.Run()

	got, err := env.books.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, got.Status)

	got, err = env.books.GetByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusActive, got.Status)
}
