package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campmatch/backend/internal/querylog"
	"github.com/campmatch/backend/internal/recommend"
	"github.com/campmatch/backend/internal/storage"
	"github.com/campmatch/backend/internal/storage/models"
)

type testEnv struct {
	service *Service
	camps   *storage.CampgroundRepository
	users   *storage.UserRepository
	books   *storage.BookingRepository
}

func newTestEnv(t *testing.T, opts recommend.Options) *testEnv {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.RunMigrations(db, nil))

	camps := storage.NewCampgroundRepository(db)
	users := storage.NewUserRepository(db)
	books := storage.NewBookingRepository(db)
	extractor := recommend.NewExtractor(nil, recommend.Vocabulary{})
	queryLog := querylog.New(filepath.Join(t.TempDir(), "logs"))

	return &testEnv{
		service: NewService(extractor, camps, books, users, queryLog, opts, nil),
		camps:   camps,
		users:   users,
		books:   books,
	}
}

func (e *testEnv) seedCatalog(t *testing.T, ctx context.Context) {
	t.Helper()

	require.NoError(t, e.users.Create(ctx, &models.User{Username: "alice"}))

	seeds := []models.Campground{
		{ID: "C1", Name: "Misty Pines", Location: "Kerala", Type: "tent",
			Activities: []string{"hiking", "bonfire"}, Amenities: []string{"toilets", "water"}},
		{ID: "C2", Name: "Lake View", Location: "Kerala", Type: "cabin",
			Activities: []string{"hiking"}, Amenities: []string{"water"}},
		{ID: "C3", Name: "Dune Base", Location: "Rajasthan", Type: "rv",
			Activities: []string{"cultural shows"}, Amenities: []string{"firewood"}},
	}
	for i := range seeds {
		require.NoError(t, e.camps.Create(ctx, &seeds[i]))
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, recommend.DefaultOptions())
	env.seedCatalog(t, ctx)

	results, err := env.service.Search(ctx, "alice", "tent in kerala with hiking", "2024-06-01", "2024-06-05")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "C1", results[0].Campground.ID)
	assert.Equal(t, 5, results[0].Score)
	assert.Equal(t, "C2", results[1].Campground.ID)
	assert.Equal(t, 4, results[1].Score)

	user, err := env.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"tent in kerala with hiking"}, user.History)
}

func TestSearch_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, recommend.DefaultOptions())
	env.seedCatalog(t, ctx)

	tests := []struct {
		name    string
		query   string
		from    string
		to      string
		wantErr error
	}{
		{"empty query", "", "2024-06-01", "2024-06-05", ErrEmptyQuery},
		{"missing from", "tent in kerala", "", "2024-06-05", ErrMissingDates},
		{"missing to", "tent in kerala", "2024-06-01", "", ErrMissingDates},
		{"reversed dates", "tent in kerala", "2024-06-05", "2024-06-01", ErrDateOrder},
		{"nothing understood", "quantum flux generators", "2024-06-01", "2024-06-05", ErrNothingUnderstood},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.service.Search(ctx, "alice", tc.query, tc.from, tc.to)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("malformed date", func(t *testing.T) {
		_, err := env.service.Search(ctx, "alice", "tent in kerala", "06/01/2024", "2024-06-05")
		var parseErr *recommend.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestSearch_AvailabilityFilterDisabledByDefault(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, recommend.DefaultOptions())
	env.seedCatalog(t, ctx)

	require.NoError(t, env.books.Create(ctx, &models.Booking{
		Username: "alice", CampID: "C1", CampName: "Misty Pines",
		FromDate: "2024-06-01", ToDate: "2024-06-10",
	}))

	results, err := env.service.Search(ctx, "alice", "tent in kerala with hiking", "2024-06-03", "2024-06-05")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "C1", results[0].Campground.ID)
}

func TestSearch_AvailabilityFilterEnabled(t *testing.T) {
	ctx := context.Background()
	opts := recommend.DefaultOptions()
	opts.FilterUnavailable = true
	env := newTestEnv(t, opts)
	env.seedCatalog(t, ctx)

	require.NoError(t, env.books.Create(ctx, &models.Booking{
		Username: "alice", CampID: "C1", CampName: "Misty Pines",
		FromDate: "2024-06-01", ToDate: "2024-06-10",
	}))

	results, err := env.service.Search(ctx, "alice", "tent in kerala with hiking", "2024-06-03", "2024-06-05")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "C2", results[0].Campground.ID)
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, recommend.DefaultOptions())
	env.seedCatalog(t, ctx)

	results, err := env.service.Recommend(ctx, "alice", "kerala hiking")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "C1", results[0].Campground.ID)

	user, err := env.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"kerala hiking"}, user.History)
}

func TestRecommend_BrowseVariantKeepsZeroScores(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, recommend.BrowseOptions())
	env.seedCatalog(t, ctx)

	results, err := env.service.Recommend(ctx, "alice", "somewhere in kerala")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 4, results[0].Score)
	assert.Equal(t, "C3", results[2].Campground.ID)
	assert.Equal(t, 0, results[2].Score)
}

func TestRecommend_NothingUnderstood(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, recommend.DefaultOptions())
	env.seedCatalog(t, ctx)

	_, err := env.service.Recommend(ctx, "alice", "zzz")
	assert.ErrorIs(t, err, ErrNothingUnderstood)
}
