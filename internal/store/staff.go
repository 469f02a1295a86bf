package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/campuslf/reclaim/internal/model"
)

// CreateStaff creates a staff account for a building, hashing the password.
func CreateStaff(ctx context.Context, db *sql.DB, email, password, building string) (*model.Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	building = strings.TrimSpace(building)
	if email == "" || building == "" {
		return nil, fmt.Errorf("email and building are required")
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO staff (email, password_hash, building) VALUES (?, ?, ?)`,
		email, string(hash), building,
	)
	if err != nil {
		return nil, fmt.Errorf("creating staff account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting staff id: %w", err)
	}

	return GetStaff(ctx, db, id)
}

// GetStaff returns a staff account by ID.
func GetStaff(ctx context.Context, db *sql.DB, id int64) (*model.Staff, error) {
	s := &model.Staff{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, building, created_at, deleted_at
		 FROM staff WHERE id = ?`, id,
	).Scan(&s.ID, &s.Email, &s.PasswordHash, &s.Building, &s.CreatedAt, &s.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting staff account: %w", err)
	}
	return s, nil
}

// GetStaffByEmail returns an active staff account by email.
func GetStaffByEmail(ctx context.Context, db *sql.DB, email string) (*model.Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s := &model.Staff{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, building, created_at, deleted_at
		 FROM staff WHERE email = ? AND deleted_at IS NULL`, email,
	).Scan(&s.ID, &s.Email, &s.PasswordHash, &s.Building, &s.CreatedAt, &s.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting staff account by email: %w", err)
	}
	return s, nil
}

// Authenticate checks credentials and returns the matching staff account,
// or nil when the email is unknown or the password does not match.
func Authenticate(ctx context.Context, db *sql.DB, email, password string) (*model.Staff, error) {
	s, err := GetStaffByEmail(ctx, db, email)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return s, nil
}

// DeleteStaff soft-deletes a staff account.
func DeleteStaff(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE staff SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting staff account: %w", err)
	}
	return nil
}
