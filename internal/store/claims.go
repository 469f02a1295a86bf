package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campuslf/reclaim/internal/model"
)

// SubmitClaim validates and records a public ownership claim against an
// item. The item itself is never mutated here; the claim lands in the
// building's pending queue. Field problems come back as
// model.ValidationErrors, a missing item as model.ErrNotFound.
func SubmitClaim(ctx context.Context, db *sql.DB, sub model.ClaimSubmission, emailDomain string) (*model.Claim, error) {
	if emailDomain == "" {
		emailDomain = model.DefaultEmailDomain
	}

	sub.Normalize()
	if errs := sub.Validate(emailDomain); errs != nil {
		return nil, errs
	}

	item, err := GetItem(ctx, db, sub.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.ErrNotFound
	}

	id, err := model.NewID()
	if err != nil {
		return nil, fmt.Errorf("generating claim id: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO claims (id, item_id, claimant_name, claimant_email, unique_detail)
		 VALUES (?, ?, ?, ?, ?)`,
		id, sub.ItemID, sub.ClaimantName, sub.ClaimantEmail, sub.UniqueDetail,
	)
	if err != nil {
		return nil, fmt.Errorf("recording claim: %w", err)
	}

	return GetClaim(ctx, db, id)
}

// GetClaim returns a claim by ID.
func GetClaim(ctx context.Context, db *sql.DB, id string) (*model.Claim, error) {
	c := &model.Claim{}
	var resolvedAt sql.NullTime
	err := db.QueryRowContext(ctx,
		`SELECT id, item_id, claimant_name, claimant_email, unique_detail, status,
		        submitted_at, resolved_at
		 FROM claims WHERE id = ?`, id,
	).Scan(&c.ID, &c.ItemID, &c.ClaimantName, &c.ClaimantEmail, &c.UniqueDetail,
		&c.Status, &c.SubmittedAt, &resolvedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	if resolvedAt.Valid {
		c.ResolvedAt = &resolvedAt.Time
	}
	return c, nil
}

// ListPendingClaims returns a building's pending claims joined to their
// items, newest submission first. The inner join drops claims whose item
// was deleted.
func ListPendingClaims(ctx context.Context, db *sql.DB, building string) ([]model.Claim, error) {
	return listClaims(ctx, db, building, true)
}

// ListResolvedClaims returns a building's non-pending claims, newest
// submission first.
func ListResolvedClaims(ctx context.Context, db *sql.DB, building string) ([]model.Claim, error) {
	return listClaims(ctx, db, building, false)
}

func listClaims(ctx context.Context, db *sql.DB, building string, pending bool) ([]model.Claim, error) {
	statusCond := `c.status = 'pending'`
	if !pending {
		statusCond = `c.status != 'pending'`
	}

	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.item_id, c.claimant_name, c.claimant_email, c.unique_detail,
		        c.status, c.submitted_at, c.resolved_at,
		        i.title AS item_title, i.building AS item_building,
		        i.description AS item_description
		 FROM claims c
		 JOIN items i ON i.id = c.item_id
		 WHERE i.building = ? AND `+statusCond+`
		 ORDER BY c.submitted_at DESC, c.rowid DESC`, building,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		var resolvedAt sql.NullTime
		var itemDescription sql.NullString
		if err := rows.Scan(&c.ID, &c.ItemID, &c.ClaimantName, &c.ClaimantEmail,
			&c.UniqueDetail, &c.Status, &c.SubmittedAt, &resolvedAt,
			&c.ItemTitle, &c.ItemBuilding, &itemDescription); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		if resolvedAt.Valid {
			c.ResolvedAt = &resolvedAt.Time
		}
		c.ItemDescription = itemDescription.String
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// ApproveClaim approves a pending claim and marks its item claimed. Both
// updates happen in one transaction: a reader never observes an approved
// claim with its item still open.
func ApproveClaim(ctx context.Context, db *sql.DB, id string) error {
	return resolveClaim(ctx, db, id, model.ClaimApproved, model.StatusClaimed)
}

// RejectClaim rejects a pending claim. The item is left alone: another
// claimant may still be legitimate.
func RejectClaim(ctx context.Context, db *sql.DB, id string) error {
	return resolveClaim(ctx, db, id, model.ClaimRejected, "")
}

// ReturnClaim resolves a pending claim as returned and marks its item
// returned, in one transaction.
func ReturnClaim(ctx context.Context, db *sql.DB, id string) error {
	return resolveClaim(ctx, db, id, model.ClaimReturned, model.StatusReturned)
}

// resolveClaim moves a pending claim to a final status and, when
// itemStatus is set, transitions the linked item in the same transaction.
func resolveClaim(ctx context.Context, db *sql.DB, id, claimStatus, itemStatus string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID, current string
	err = tx.QueryRowContext(ctx,
		`SELECT item_id, status FROM claims WHERE id = ?`, id,
	).Scan(&itemID, &current)
	if err == sql.ErrNoRows {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking claim: %w", err)
	}
	if current != model.ClaimPending {
		return model.ErrAlreadyResolved
	}

	if itemStatus != "" {
		if err := setItemStatusTx(ctx, tx, itemID, itemStatus); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE claims SET status = ?, resolved_at = CURRENT_TIMESTAMP WHERE id = ?`,
		claimStatus, id,
	)
	if err != nil {
		return fmt.Errorf("resolving claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing claim resolution: %w", err)
	}
	return nil
}
