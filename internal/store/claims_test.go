package store

import (
	"context"
	"errors"
	"testing"

	"github.com/campuslf/reclaim/internal/db"
	"github.com/campuslf/reclaim/internal/model"
)

func submission(itemID string) model.ClaimSubmission {
	return model.ClaimSubmission{
		ItemID:        itemID,
		ClaimantName:  "Jane Smith",
		ClaimantEmail: "jane.smith@umanitoba.ca",
		UniqueDetail:  "small blue sticker on the bottom corner",
	}
}

func TestSubmitClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Black Wallet", "Engineering"))

	claim, err := SubmitClaim(ctx, database, submission(item.ID), "")
	if err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}
	if claim.Status != model.ClaimPending {
		t.Errorf("expected pending claim, got %q", claim.Status)
	}
	if claim.ResolvedAt != nil {
		t.Error("expected no resolvedAt on a fresh claim")
	}
	if claim.SubmittedAt.IsZero() {
		t.Error("expected submittedAt to be set")
	}

	// Submitting never mutates the item.
	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.StatusOpen {
		t.Errorf("expected item to stay open, got %q", got.Status)
	}
}

func TestSubmitClaimValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Black Wallet", "Engineering"))

	sub := submission(item.ID)
	sub.ClaimantEmail = "abc@otherdomain.com"

	_, err := SubmitClaim(ctx, database, sub, "")
	var verrs model.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if verrs["email"] == "" {
		t.Errorf("expected an email field error, got %v", verrs)
	}

	// Case-insensitive domain match.
	sub.ClaimantEmail = "ABC@UManitoba.CA"
	if _, err := SubmitClaim(ctx, database, sub, ""); err != nil {
		t.Errorf("expected uppercase institutional email to be accepted, got %v", err)
	}
}

func TestSubmitClaimMissingItem(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := SubmitClaim(context.Background(), database, submission("deadbeefdeadbeef"), "")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPendingClaims(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	libItem, _ := CreateItem(ctx, database, newItem("Library Item", "Library"))
	gymItem, _ := CreateItem(ctx, database, newItem("Gym Item", "Gym"))
	orphanItem, _ := CreateItem(ctx, database, newItem("Doomed Item", "Library"))

	first, _ := SubmitClaim(ctx, database, submission(libItem.ID), "")
	SubmitClaim(ctx, database, submission(gymItem.ID), "")
	orphaned, _ := SubmitClaim(ctx, database, submission(orphanItem.ID), "")
	second, _ := SubmitClaim(ctx, database, submission(libItem.ID), "")

	// Orphan the third claim.
	if err := DeleteItem(ctx, database, orphanItem.ID); err != nil {
		t.Fatal(err)
	}

	pending, err := ListPendingClaims(ctx, database, "Library")
	if err != nil {
		t.Fatalf("ListPendingClaims: %v", err)
	}

	if len(pending) != 2 {
		t.Fatalf("expected 2 pending Library claims, got %d", len(pending))
	}
	// Newest first.
	if pending[0].ID != second.ID || pending[1].ID != first.ID {
		t.Errorf("expected newest-first order [%s %s], got [%s %s]",
			second.ID, first.ID, pending[0].ID, pending[1].ID)
	}
	for _, c := range pending {
		if c.ID == orphaned.ID {
			t.Error("orphaned claim leaked into the pending queue")
		}
		if c.ItemBuilding != "Library" {
			t.Errorf("claim %s for building %q leaked into Library queue", c.ID, c.ItemBuilding)
		}
		if c.ItemTitle == "" {
			t.Errorf("claim %s missing joined item title", c.ID)
		}
	}
}

func TestApproveClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Black Wallet", "Engineering"))
	claim, _ := SubmitClaim(ctx, database, submission(item.ID), "")

	if err := ApproveClaim(ctx, database, claim.ID); err != nil {
		t.Fatalf("ApproveClaim: %v", err)
	}

	// Claim and item moved together.
	gotClaim, _ := GetClaim(ctx, database, claim.ID)
	if gotClaim.Status != model.ClaimApproved {
		t.Errorf("expected approved claim, got %q", gotClaim.Status)
	}
	if gotClaim.ResolvedAt == nil {
		t.Error("expected resolvedAt to be set")
	}
	gotItem, _ := GetItem(ctx, database, item.ID)
	if gotItem.Status != model.StatusClaimed {
		t.Errorf("expected claimed item, got %q", gotItem.Status)
	}

	// Second approval is rejected, and the item stays claimed.
	if err := ApproveClaim(ctx, database, claim.ID); !errors.Is(err, model.ErrAlreadyResolved) {
		t.Errorf("expected ErrAlreadyResolved, got %v", err)
	}
	gotItem, _ = GetItem(ctx, database, item.ID)
	if gotItem.Status != model.StatusClaimed {
		t.Errorf("expected item to remain claimed, got %q", gotItem.Status)
	}
}

func TestRejectClaimLeavesItemAlone(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Black Wallet", "Engineering"))
	claim, _ := SubmitClaim(ctx, database, submission(item.ID), "")

	if err := RejectClaim(ctx, database, claim.ID); err != nil {
		t.Fatalf("RejectClaim: %v", err)
	}

	gotClaim, _ := GetClaim(ctx, database, claim.ID)
	if gotClaim.Status != model.ClaimRejected {
		t.Errorf("expected rejected claim, got %q", gotClaim.Status)
	}
	// Another claimant may still be legitimate.
	gotItem, _ := GetItem(ctx, database, item.ID)
	if gotItem.Status != model.StatusOpen {
		t.Errorf("expected item to stay open, got %q", gotItem.Status)
	}

	// A later claim on the same item can still be approved.
	later, _ := SubmitClaim(ctx, database, submission(item.ID), "")
	if err := ApproveClaim(ctx, database, later.ID); err != nil {
		t.Fatalf("approving a later claim: %v", err)
	}
}

func TestReturnClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Black Wallet", "Engineering"))
	claim, _ := SubmitClaim(ctx, database, submission(item.ID), "")

	if err := ReturnClaim(ctx, database, claim.ID); err != nil {
		t.Fatalf("ReturnClaim: %v", err)
	}

	gotClaim, _ := GetClaim(ctx, database, claim.ID)
	if gotClaim.Status != model.ClaimReturned {
		t.Errorf("expected returned claim, got %q", gotClaim.Status)
	}
	gotItem, _ := GetItem(ctx, database, item.ID)
	if gotItem.Status != model.StatusReturned {
		t.Errorf("expected returned item, got %q", gotItem.Status)
	}
}

func TestApproveOrphanedClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Doomed", "Engineering"))
	claim, _ := SubmitClaim(ctx, database, submission(item.ID), "")
	DeleteItem(ctx, database, item.ID)

	if err := ApproveClaim(ctx, database, claim.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for orphaned claim, got %v", err)
	}

	// The whole resolution rolled back: the claim is still pending.
	got, _ := GetClaim(ctx, database, claim.ID)
	if got.Status != model.ClaimPending {
		t.Errorf("expected claim to stay pending, got %q", got.Status)
	}
}

func TestApproveClaimOnReturnedItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Black Wallet", "Engineering"))
	claim, _ := SubmitClaim(ctx, database, submission(item.ID), "")
	SetItemStatus(ctx, database, item.ID, model.StatusReturned)

	if err := ApproveClaim(ctx, database, claim.ID); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	// Rolled back: claim still pending.
	got, _ := GetClaim(ctx, database, claim.ID)
	if got.Status != model.ClaimPending {
		t.Errorf("expected claim to stay pending, got %q", got.Status)
	}
}

func TestListResolvedClaims(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Black Wallet", "Engineering"))
	rejected, _ := SubmitClaim(ctx, database, submission(item.ID), "")
	pending, _ := SubmitClaim(ctx, database, submission(item.ID), "")
	RejectClaim(ctx, database, rejected.ID)

	resolved, err := ListResolvedClaims(ctx, database, "Engineering")
	if err != nil {
		t.Fatalf("ListResolvedClaims: %v", err)
	}
	if len(resolved) != 1 || resolved[0].ID != rejected.ID {
		t.Errorf("expected only the rejected claim, got %+v", resolved)
	}

	queue, _ := ListPendingClaims(ctx, database, "Engineering")
	if len(queue) != 1 || queue[0].ID != pending.ID {
		t.Errorf("expected only the pending claim in the queue, got %+v", queue)
	}
}

func TestResolveMissingClaim(t *testing.T) {
	database := db.NewTestDB(t)

	if err := ApproveClaim(context.Background(), database, "deadbeefdeadbeef"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
