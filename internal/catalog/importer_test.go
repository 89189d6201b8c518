package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campmatch/backend/internal/storage"
)

func newTestRepos(t *testing.T) (*storage.CampgroundRepository, *storage.UserRepository, *storage.BookingRepository) {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.RunMigrations(db, nil))

	return storage.NewCampgroundRepository(db),
		storage.NewUserRepository(db),
		storage.NewBookingRepository(db)
}

func writeSeed(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func TestImport(t *testing.T) {
	campRepo, userRepo, bookingRepo := newTestRepos(t)
	importer := NewImporter(campRepo, userRepo, bookingRepo, nil)

	dir := t.TempDir()
	writeSeed(t, dir, CampgroundFile, []map[string]any{
		{
			"id": "C1", "name": "Misty Pines", "location": "Kerala", "type": "tent",
			"activities": []string{"hiking", "bonfire"},
			"amenities":  "toilets, water",
			"status":     "Active", "owner_id": "owner1",
		},
		{
			"id": "C2", "name": "Dune Base", "location": "Rajasthan", "type": "rv",
			"status": "Inactive", "owner_id": "owner1",
		},
	})
	writeSeed(t, dir, UserFile, []map[string]any{
		{"username": "alice", "type": "camper", "favorites": []string{"Misty Pines"}, "history": []string{"tent in kerala"}},
		{"username": "owner1", "type": "owner"},
	})
	writeSeed(t, dir, BookingFile, []map[string]any{
		{"username": "alice", "camp_id": "C1", "camp_name": "Misty Pines", "from_date": "2024-06-01", "to_date": "2024-06-05"},
	})

	ctx := context.Background()
	result, err := importer.Import(ctx, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CampgroundsCreated)
	assert.Equal(t, 0, result.CampgroundsUpdated)
	assert.Equal(t, 2, result.UsersCreated)
	assert.Equal(t, 1, result.BookingsCreated)
	assert.Nil(t, result.Error)

	camp, err := campRepo.GetByID(ctx, "C1")
	require.NoError(t, err)
	require.NotNil(t, camp)
	assert.Equal(t, "Misty Pines", camp.Name)
	assert.Equal(t, []string{"hiking", "bonfire"}, camp.Activities)
	assert.Equal(t, []string{"toilets", "water"}, camp.Amenities)

	user, err := userRepo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, []string{"Misty Pines"}, user.Favorites)
	assert.Equal(t, []string{"tent in kerala"}, user.History)

	bookings, err := bookingRepo.ListByCampground(ctx, "C1")
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestImport_Idempotent(t *testing.T) {
	campRepo, userRepo, bookingRepo := newTestRepos(t)
	importer := NewImporter(campRepo, userRepo, bookingRepo, nil)

	dir := t.TempDir()
	writeSeed(t, dir, CampgroundFile, []map[string]any{
		{"id": "C1", "name": "Misty Pines", "location": "Kerala", "type": "tent", "status": "Active", "owner_id": "owner1"},
	})
	writeSeed(t, dir, UserFile, []map[string]any{
		{"username": "alice", "type": "camper"},
	})
	writeSeed(t, dir, BookingFile, []map[string]any{
		{"username": "alice", "camp_id": "C1", "camp_name": "Misty Pines", "from_date": "2024-06-01", "to_date": "2024-06-05"},
	})

	ctx := context.Background()
	_, err := importer.Import(ctx, dir)
	require.NoError(t, err)

	result, err := importer.Import(ctx, dir)
	require.NoError(t, err)

	assert.Equal(t, 0, result.CampgroundsCreated)
	assert.Equal(t, 1, result.CampgroundsUpdated)
	assert.Equal(t, 0, result.UsersCreated)
	assert.Equal(t, 0, result.BookingsCreated)

	bookings, err := bookingRepo.ListByCampground(ctx, "C1")
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestImport_MissingFilesSkipped(t *testing.T) {
	campRepo, userRepo, bookingRepo := newTestRepos(t)
	importer := NewImporter(campRepo, userRepo, bookingRepo, nil)

	result, err := importer.Import(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, result.CampgroundsCreated)
	assert.Equal(t, 0, result.UsersCreated)
	assert.Equal(t, 0, result.BookingsCreated)
}

func TestImport_MalformedSeedFails(t *testing.T) {
	campRepo, userRepo, bookingRepo := newTestRepos(t)
	importer := NewImporter(campRepo, userRepo, bookingRepo, nil)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CampgroundFile), []byte("{not json"), 0644))

	result, err := importer.Import(context.Background(), dir)
	require.Error(t, err)
	assert.Equal(t, err, result.Error)
}

func TestFlexibleList(t *testing.T) {
	var doc struct {
		Items flexibleList `json:"items"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"items": ["a", "b"]}`), &doc))
	assert.Equal(t, flexibleList{"a", "b"}, doc.Items)

	require.NoError(t, json.Unmarshal([]byte(`{"items": "a, b , c"}`), &doc))
	assert.Equal(t, flexibleList{"a", "b", "c"}, doc.Items)

	require.NoError(t, json.Unmarshal([]byte(`{"items": ""}`), &doc))
	assert.Empty(t, doc.Items)
}
