package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/liftlens/internal/models"
)

// ErrUserNotFound is returned when a user ID has no row.
var ErrUserNotFound = errors.New("user not found")

// GetOrCreateUser finds or creates a user by Tailscale login name.
// Returns the user ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting user %q: %w", login, err)
	}
	return id, nil
}

// GetProfile loads the profile handed to the analytics pipeline.
func (db *DB) GetProfile(ctx context.Context, userID int) (models.UserProfile, error) {
	p := models.UserProfile{UserID: userID}
	err := db.Pool.QueryRow(ctx,
		`SELECT login, display_name, bodyweight_kg FROM users WHERE id = $1`, userID,
	).Scan(&p.Login, &p.DisplayName, &p.BodyweightKg)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("loading user %d: %w", userID, err)
	}
	return p, nil
}

// SetBodyweight records the user's bodyweight in kilograms. Nil clears it.
func (db *DB) SetBodyweight(ctx context.Context, userID int, kg *float64) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE users SET bodyweight_kg = $2 WHERE id = $1`, userID, kg)
	if err != nil {
		return fmt.Errorf("updating bodyweight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	return nil
}
