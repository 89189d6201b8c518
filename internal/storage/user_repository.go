package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campmatch/backend/internal/storage/models"
)

// UserRepository provides data access for users, favorites and search history.
type UserRepository struct {
	BaseRepository
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.Type == "" {
		user.Type = models.UserTypeCamper
	}
	user.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO users (username, type, created_at) VALUES (?, ?, ?)
	`, user.Username, user.Type, user.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user with favorites and history attached.
// Returns nil when the user is not registered.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT username, type, created_at FROM users WHERE username = ?
	`, username).Scan(&user.Username, &user.Type, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	if user.Favorites, err = r.Favorites(ctx, username); err != nil {
		return nil, err
	}
	if user.History, err = r.History(ctx, username); err != nil {
		return nil, err
	}

	return user, nil
}

// Exists reports whether a username is registered.
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var count int
	err := r.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return count > 0, nil
}

// Favorites retrieves the user's favorite campground names, oldest first.
func (r *UserRepository) Favorites(ctx context.Context, username string) ([]string, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT campground_name FROM favorites WHERE username = ? ORDER BY created_at, campground_name
	`, username)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// AddFavorite records a favorite campground for a user. Adding the same name
// twice is a no-op (names compare case-insensitively).
func (r *UserRepository) AddFavorite(ctx context.Context, username, campgroundName string) error {
	_, err := r.DB().ExecContext(ctx, `
		INSERT OR IGNORE INTO favorites (username, campground_name, created_at) VALUES (?, ?, ?)
	`, username, campgroundName, r.Now())
	if err != nil {
		return fmt.Errorf("inserting favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a favorite by campground name.
func (r *UserRepository) RemoveFavorite(ctx context.Context, username, campgroundName string) error {
	_, err := r.DB().ExecContext(ctx, `
		DELETE FROM favorites WHERE username = ? AND campground_name = ?
	`, username, campgroundName)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}
	return nil
}

// History retrieves the user's past search queries, oldest first.
func (r *UserRepository) History(ctx context.Context, username string) ([]string, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT query FROM search_history WHERE username = ? ORDER BY id
	`, username)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// AppendHistory records a search query in the user's history.
func (r *UserRepository) AppendHistory(ctx context.Context, username, query string) error {
	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO search_history (username, query, created_at) VALUES (?, ?, ?)
	`, username, query, r.Now())
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
