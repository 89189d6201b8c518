package storage

import (
	"context"
	"fmt"

	"github.com/campmatch/backend/internal/storage/models"
)

// CartRepository provides data access for pending reservations held in carts.
type CartRepository struct {
	BaseRepository
}

// NewCartRepository creates a new cart repository.
func NewCartRepository(db *DB) *CartRepository {
	return &CartRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Add inserts a cart item for a user.
func (r *CartRepository) Add(ctx context.Context, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = GenerateID()
	}
	item.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO cart_items (id, username, camp_id, camp_name, from_date, to_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		item.ID, item.Username, item.CampID, item.CampName,
		item.FromDate, item.ToDate, item.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting cart item: %w", err)
	}

	return nil
}

// ListByUser retrieves the user's cart, oldest item first.
func (r *CartRepository) ListByUser(ctx context.Context, username string) ([]models.CartItem, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, username, camp_id, camp_name, from_date, to_date, created_at
		FROM cart_items WHERE username = ? ORDER BY created_at, id
	`, username)
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(
			&item.ID, &item.Username, &item.CampID, &item.CampName,
			&item.FromDate, &item.ToDate, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning cart item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ClearIn removes all cart items for a user using the given connection,
// which may be a transaction (checkout clears the cart atomically with the
// booking inserts).
func (r *CartRepository) ClearIn(ctx context.Context, q Queryable, username string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM cart_items WHERE username = ?`, username); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

// Clear removes all cart items for a user.
func (r *CartRepository) Clear(ctx context.Context, username string) error {
	return r.ClearIn(ctx, r.DB(), username)
}
