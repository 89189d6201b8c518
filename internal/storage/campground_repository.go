package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campmatch/backend/internal/storage/models"
)

// CampgroundRepository provides data access for campground listings.
type CampgroundRepository struct {
	BaseRepository
}

// NewCampgroundRepository creates a new campground repository.
func NewCampgroundRepository(db *DB) *CampgroundRepository {
	return &CampgroundRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const campgroundColumns = `id, name, location, type, activities, amenities, status, owner_id, created_at, updated_at`

// Create inserts a new campground listing.
func (r *CampgroundRepository) Create(ctx context.Context, camp *models.Campground) error {
	if camp.ID == "" {
		camp.ID = GenerateID()
	}
	if camp.Status == "" {
		camp.Status = models.CampgroundStatusActive
	}
	camp.CreatedAt = r.Now()
	camp.UpdatedAt = camp.CreatedAt

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO campgrounds (id, name, location, type, activities, amenities, status, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		camp.ID, camp.Name, camp.Location, camp.Type,
		encodeList(camp.Activities), encodeList(camp.Amenities),
		camp.Status, camp.OwnerID, camp.CreatedAt, camp.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting campground: %w", err)
	}

	return nil
}

// Update overwrites the mutable fields of an existing listing.
func (r *CampgroundRepository) Update(ctx context.Context, camp *models.Campground) error {
	camp.UpdatedAt = r.Now()

	res, err := r.DB().ExecContext(ctx, `
		UPDATE campgrounds SET
			name = ?, location = ?, type = ?, activities = ?, amenities = ?,
			status = ?, owner_id = ?, updated_at = ?
		WHERE id = ?
	`,
		camp.Name, camp.Location, camp.Type,
		encodeList(camp.Activities), encodeList(camp.Amenities),
		camp.Status, camp.OwnerID, camp.UpdatedAt, camp.ID,
	)
	if err != nil {
		return fmt.Errorf("updating campground: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("campground not found: %s", camp.ID)
	}

	return nil
}

// Upsert inserts a listing or, when a listing with the same name already
// exists (case-insensitively), updates it in place. Returns true when a new
// row was created. Used by the catalog importer.
func (r *CampgroundRepository) Upsert(ctx context.Context, camp *models.Campground) (bool, error) {
	existing, err := r.GetByName(ctx, camp.Name)
	if err != nil {
		return false, err
	}

	if existing == nil {
		if err := r.Create(ctx, camp); err != nil {
			return false, err
		}
		return true, nil
	}

	camp.ID = existing.ID
	if err := r.Update(ctx, camp); err != nil {
		return false, err
	}
	return false, nil
}

// GetByID retrieves a campground by its ID.
func (r *CampgroundRepository) GetByID(ctx context.Context, id string) (*models.Campground, error) {
	row := r.DB().QueryRowContext(ctx,
		`SELECT `+campgroundColumns+` FROM campgrounds WHERE id = ?`, id)
	return r.scanOne(row)
}

// GetByName retrieves a campground by name. Lookups are case-insensitive.
func (r *CampgroundRepository) GetByName(ctx context.Context, name string) (*models.Campground, error) {
	row := r.DB().QueryRowContext(ctx,
		`SELECT `+campgroundColumns+` FROM campgrounds WHERE name = ? COLLATE NOCASE`, name)
	return r.scanOne(row)
}

// List retrieves all campgrounds in insertion order. The catalog order is the
// tie-break order used by match ranking, so it must be stable across calls.
func (r *CampgroundRepository) List(ctx context.Context) ([]models.Campground, error) {
	rows, err := r.DB().QueryContext(ctx,
		`SELECT `+campgroundColumns+` FROM campgrounds ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying campgrounds: %w", err)
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// ListByOwner retrieves all campgrounds managed by an owner.
func (r *CampgroundRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Campground, error) {
	rows, err := r.DB().QueryContext(ctx,
		`SELECT `+campgroundColumns+` FROM campgrounds WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying campgrounds by owner: %w", err)
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// ListByNames retrieves campgrounds whose names appear in the given list,
// matched case-insensitively. Used to resolve favorites to full records.
func (r *CampgroundRepository) ListByNames(ctx context.Context, names []string) ([]models.Campground, error) {
	var out []models.Campground
	for _, name := range names {
		camp, err := r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if camp != nil {
			out = append(out, *camp)
		}
	}
	return out, nil
}

// SetStatus updates a listing's Active/Inactive status.
func (r *CampgroundRepository) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.DB().ExecContext(ctx, `
		UPDATE campgrounds SET status = ?, updated_at = ? WHERE id = ?
	`, status, r.Now(), id)
	if err != nil {
		return fmt.Errorf("updating campground status: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("campground not found: %s", id)
	}

	return nil
}

// Delete removes a listing and, via foreign keys, its bookings and cart items.
func (r *CampgroundRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB().ExecContext(ctx, `DELETE FROM campgrounds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting campground: %w", err)
	}
	return nil
}

// ListWithBookings retrieves the full catalog with each listing's booking
// date ranges attached, so callers get a consistent point-in-time snapshot
// for the matching engine.
func (r *CampgroundRepository) ListWithBookings(ctx context.Context) ([]models.Campground, error) {
	camps, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB().QueryContext(ctx,
		`SELECT camp_id, from_date, to_date FROM bookings ORDER BY from_date`)
	if err != nil {
		return nil, fmt.Errorf("querying booking ranges: %w", err)
	}
	defer rows.Close()

	ranges := make(map[string][]models.DateRange)
	for rows.Next() {
		var campID string
		var dr models.DateRange
		if err := rows.Scan(&campID, &dr.From, &dr.To); err != nil {
			return nil, fmt.Errorf("scanning booking range: %w", err)
		}
		ranges[campID] = append(ranges[campID], dr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range camps {
		camps[i].Bookings = ranges[camps[i].ID]
	}

	return camps, nil
}

func (r *CampgroundRepository) scanOne(row *sql.Row) (*models.Campground, error) {
	camp := &models.Campground{}
	var activities, amenities string

	err := row.Scan(
		&camp.ID, &camp.Name, &camp.Location, &camp.Type,
		&activities, &amenities, &camp.Status, &camp.OwnerID,
		&camp.CreatedAt, &camp.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning campground: %w", err)
	}

	camp.Activities = decodeList(activities)
	camp.Amenities = decodeList(amenities)
	return camp, nil
}

func (r *CampgroundRepository) scanMany(rows *sql.Rows) ([]models.Campground, error) {
	var camps []models.Campground
	for rows.Next() {
		var camp models.Campground
		var activities, amenities string

		if err := rows.Scan(
			&camp.ID, &camp.Name, &camp.Location, &camp.Type,
			&activities, &amenities, &camp.Status, &camp.OwnerID,
			&camp.CreatedAt, &camp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning campground: %w", err)
		}

		camp.Activities = decodeList(activities)
		camp.Amenities = decodeList(amenities)
		camps = append(camps, camp)
	}

	return camps, rows.Err()
}
