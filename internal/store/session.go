package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campuslf/reclaim/internal/auth"
	"github.com/campuslf/reclaim/internal/model"
)

// SetSession stores a signed session token as the single active session.
func SetSession(ctx context.Context, db *sql.DB, token string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ('session', ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		token,
	)
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// GetSession returns the current session, or nil when there is none or
// the stored token is expired or tampered with. Callers must treat nil as
// "login required" and never proceed.
func GetSession(ctx context.Context, db *sql.DB, secret string) (*model.Session, error) {
	var token string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'session'`,
	).Scan(&token)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	session, err := auth.ValidateToken(secret, token)
	if err != nil {
		// A stale or tampered token is the same as no session.
		return nil, nil
	}
	return session, nil
}

// ClearSession removes the active session.
func ClearSession(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `DELETE FROM settings WHERE key = 'session'`)
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
