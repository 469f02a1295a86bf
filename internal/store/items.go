package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campuslf/reclaim/internal/model"
)

const itemColumns = `id, kind, status, title, category, building, location, date,
	 description, tags, contact_email, photo_mime, created_at, updated_at`

// CreateItem creates a new item. The ID is assigned here; status defaults
// to open when unset.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	id, err := model.NewID()
	if err != nil {
		return nil, fmt.Errorf("generating item id: %w", err)
	}
	if item.Status == "" {
		item.Status = model.StatusOpen
	}
	if !model.ValidKind(item.Kind) {
		return nil, fmt.Errorf("invalid item kind %q", item.Kind)
	}
	if !model.ValidStatus(item.Status) {
		return nil, fmt.Errorf("invalid item status %q", item.Status)
	}

	tags, err := encodeTags(item.Tags)
	if err != nil {
		return nil, fmt.Errorf("encoding tags: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO items (id, kind, status, title, category, building, location, date,
		                    description, tags, contact_email)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.Kind, item.Status, item.Title, item.Category, item.Building,
		item.Location, item.Date, item.Description, tags, item.ContactEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items, optionally restricted to a building.
// Order is insertion order (rowid), the "original relative order" that
// the query engine's sorts are stable against.
func ListItems(ctx context.Context, db *sql.DB, building string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var args []any
	if building != "" {
		query += ` WHERE building = ?`
		args = append(args, building)
	}
	query += ` ORDER BY rowid`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's metadata. Status is not touched here; use
// SetItemStatus so transitions stay centralized.
func UpdateItem(ctx context.Context, db *sql.DB, id string, item model.Item) error {
	tags, err := encodeTags(item.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET kind = ?, title = ?, category = ?, location = ?, date = ?,
		        description = ?, tags = ?, contact_email = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		item.Kind, item.Title, item.Category, item.Location, item.Date,
		item.Description, tags, item.ContactEmail, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SetItemStatus moves an item to a new status, enforcing lifecycle rules.
func SetItemStatus(ctx context.Context, db *sql.DB, id, status string) error {
	if !model.ValidStatus(status) {
		return fmt.Errorf("invalid item status %q", status)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := setItemStatusTx(ctx, tx, id, status); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing status change: %w", err)
	}
	return nil
}

// setItemStatusTx applies a validated status transition inside an existing
// transaction. Shared with claim adjudication so the claim and item are
// updated atomically.
func setItemStatusTx(ctx context.Context, tx *sql.Tx, id, status string) error {
	var current string
	err := tx.QueryRowContext(ctx,
		`SELECT status FROM items WHERE id = ?`, id,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking item status: %w", err)
	}

	if err := model.Transition(current, status); err != nil {
		return err
	}
	if current == status {
		return nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return nil
}

// DeleteItem hard-deletes an item. Claims referencing it become orphans
// and are dropped from admin views by the claim queries.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SetItemPhoto stores an item's photo as an opaque blob.
func SetItemPhoto(ctx context.Context, db *sql.DB, id string, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return nil
}

// GetItemPhoto returns an item's photo data and MIME type.
func GetItemPhoto(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var description, tags, contactEmail, photoMime sql.NullString
	err := s.Scan(&item.ID, &item.Kind, &item.Status, &item.Title, &item.Category,
		&item.Building, &item.Location, &item.Date, &description, &tags,
		&contactEmail, &photoMime, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Tags = decodeTags(tags.String)
	item.ContactEmail = contactEmail.String
	item.PhotoMime = photoMime.String
	return item, nil
}

// encodeTags normalizes tags to lowercase and stores them as a JSON array.
func encodeTags(tags []string) (string, error) {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			normalized = append(normalized, t)
		}
	}
	buf, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// decodeTags parses a stored tag list. Malformed data degrades to no tags
// instead of propagating a parse error.
func decodeTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
