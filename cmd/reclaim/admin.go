package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/campuslf/reclaim/internal/auth"
	"github.com/campuslf/reclaim/internal/model"
	"github.com/campuslf/reclaim/internal/query"
	"github.com/campuslf/reclaim/internal/store"
)

func cmdLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	email := fs.String("email", "", "staff email")
	password := fs.String("password", "", "staff password")
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	staff, err := store.Authenticate(ctx, e.database, *email, *password)
	if err != nil {
		return err
	}
	if staff == nil {
		return errors.New("invalid credentials")
	}

	token, err := auth.GenerateToken(e.secret, staff.Email, staff.Building, time.Now())
	if err != nil {
		return err
	}
	if err := store.SetSession(ctx, e.database, token); err != nil {
		return err
	}

	fmt.Printf("Welcome! Signed in as %s (%s).\n", staff.Email, staff.Building)
	return nil
}

func cmdLogout(args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := store.ClearSession(context.Background(), e.database); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func cmdWhoami(args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	session, err := store.GetSession(context.Background(), e.database, e.secret)
	if err != nil {
		return err
	}
	if session == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s (%s), signed in %s\n",
		session.Email, session.Building, session.LoggedInAt.Format(time.RFC3339))
	return nil
}

// requireSession returns the active session or exits with a login hint.
// Callers never proceed without one.
func requireSession(e *env) *model.Session {
	session, err := store.GetSession(context.Background(), e.database, e.secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if session == nil {
		fmt.Fprintln(os.Stderr, "Login required: run `reclaim login -email ... -password ...`")
		os.Exit(1)
	}
	return session
}

func cmdStaff(args []string) error {
	if len(args) < 1 || args[0] != "add" {
		return errors.New("usage: reclaim staff add -email ... -building ... -password ...")
	}

	fs := flag.NewFlagSet("staff add", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	email := fs.String("email", "", "staff email")
	building := fs.String("building", "", "building the account is scoped to")
	password := fs.String("password", "", "account password")
	fs.Parse(args[1:])

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	staff, err := store.CreateStaff(context.Background(), e.database, *email, *password, *building)
	if err != nil {
		return err
	}
	fmt.Printf("Staff account created: %s (%s)\n", staff.Email, staff.Building)
	return nil
}

func cmdItem(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: reclaim item <add|edit|status|delete|photo> [flags]")
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "add":
		return itemAdd(rest)
	case "edit":
		return itemEdit(rest)
	case "status":
		return itemStatus(rest)
	case "delete":
		return itemDelete(rest)
	case "photo":
		return itemPhoto(rest)
	}
	return fmt.Errorf("unknown item subcommand: %s", sub)
}

// itemFieldFlags registers the editable item fields, all defaulting to
// empty so edits can tell "unset" from "set to empty".
func itemFieldFlags(fs *flag.FlagSet, item *model.Item) *string {
	fs.StringVar(&item.Kind, "kind", "", "found|lost")
	fs.StringVar(&item.Title, "title", "", "item title")
	fs.StringVar(&item.Category, "category", "", "item category")
	fs.StringVar(&item.Location, "location", "", "where it was found/lost")
	fs.StringVar(&item.Date, "date", "", "date (YYYY-MM-DD, default today on add)")
	fs.StringVar(&item.Description, "description", "", "free-text description")
	fs.StringVar(&item.ContactEmail, "contact", "", "contact email (optional)")
	return fs.String("tags", "", "comma-separated tags")
}

func itemAdd(args []string) error {
	fs := flag.NewFlagSet("item add", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	var item model.Item
	tags := itemFieldFlags(fs, &item)
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	session := requireSession(e)

	if item.Kind == "" {
		item.Kind = model.KindFound
	}
	if item.Date == "" {
		item.Date = time.Now().Format("2006-01-02")
	}
	if item.Title == "" || item.Category == "" || item.Location == "" {
		return errors.New("please fill required fields (title, category, location)")
	}

	// Items always belong to the session's building.
	item.Building = session.Building
	item.Tags = splitTags(*tags)

	created, err := store.CreateItem(context.Background(), e.database, item)
	if err != nil {
		return err
	}
	fmt.Printf("Item added: %s (%s)\n", created.ID, created.Title)
	return nil
}

func itemEdit(args []string) error {
	fs := flag.NewFlagSet("item edit", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	id := fs.String("id", "", "item id")
	var item model.Item
	tags := itemFieldFlags(fs, &item)
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	session := requireSession(e)
	ctx := context.Background()

	existing, err := scopedItem(ctx, e, session, *id)
	if err != nil {
		return err
	}

	// Unset flags keep the stored values.
	merged := *existing
	if item.Kind != "" {
		merged.Kind = item.Kind
	}
	if item.Title != "" {
		merged.Title = item.Title
	}
	if item.Category != "" {
		merged.Category = item.Category
	}
	if item.Location != "" {
		merged.Location = item.Location
	}
	if item.Date != "" {
		merged.Date = item.Date
	}
	if item.Description != "" {
		merged.Description = item.Description
	}
	if item.ContactEmail != "" {
		merged.ContactEmail = item.ContactEmail
	}
	if *tags != "" {
		merged.Tags = splitTags(*tags)
	}

	if err := store.UpdateItem(ctx, e.database, existing.ID, merged); err != nil {
		return err
	}
	fmt.Printf("Item updated: %s\n", existing.ID)
	return nil
}

func itemStatus(args []string) error {
	fs := flag.NewFlagSet("item status", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	id := fs.String("id", "", "item id")
	status := fs.String("set", "", "open|claimed|returned")
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	session := requireSession(e)
	ctx := context.Background()

	existing, err := scopedItem(ctx, e, session, *id)
	if err != nil {
		return err
	}

	err = store.SetItemStatus(ctx, e.database, existing.ID, *status)
	if errors.Is(err, model.ErrInvalidTransition) {
		return fmt.Errorf("cannot move item from %s to %s", existing.Status, *status)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Status updated to %s\n", *status)
	return nil
}

func itemDelete(args []string) error {
	fs := flag.NewFlagSet("item delete", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	id := fs.String("id", "", "item id")
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	session := requireSession(e)
	ctx := context.Background()

	existing, err := scopedItem(ctx, e, session, *id)
	if err != nil {
		return err
	}

	if err := store.DeleteItem(ctx, e.database, existing.ID); err != nil {
		return err
	}
	fmt.Println("Item deleted")
	return nil
}

func itemPhoto(args []string) error {
	fs := flag.NewFlagSet("item photo", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	id := fs.String("id", "", "item id")
	file := fs.String("file", "", "photo file path")
	mime := fs.String("mime", "image/jpeg", "photo MIME type")
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	session := requireSession(e)
	ctx := context.Background()

	existing, err := scopedItem(ctx, e, session, *id)
	if err != nil {
		return err
	}

	// The photo is stored as-is; no decoding or resizing.
	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}

	if err := store.SetItemPhoto(ctx, e.database, existing.ID, data, *mime); err != nil {
		return err
	}
	fmt.Printf("Photo attached (%d bytes)\n", len(data))
	return nil
}

// scopedItem loads an item and verifies it belongs to the session's
// building. Staff never see or mutate another building's records.
func scopedItem(ctx context.Context, e *env, session *model.Session, id string) (*model.Item, error) {
	if id == "" {
		return nil, errors.New("-id is required")
	}
	item, err := store.GetItem(ctx, e.database, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Building != session.Building {
		return nil, fmt.Errorf("no item with id %s in %s", id, session.Building)
	}
	return item, nil
}

func cmdClaims(args []string) error {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		return claimsList(args)
	case "approve":
		return claimsResolve(args, "approve")
	case "reject":
		return claimsResolve(args, "reject")
	case "return":
		return claimsResolve(args, "return")
	}
	return fmt.Errorf("unknown claims subcommand: %s", sub)
}

func claimsList(args []string) error {
	fs := flag.NewFlagSet("claims", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	resolved := fs.Bool("resolved", false, "show resolved claims instead of pending")
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	session := requireSession(e)
	ctx := context.Background()

	var claims []model.Claim
	if *resolved {
		claims, err = store.ListResolvedClaims(ctx, e.database, session.Building)
	} else {
		claims, err = store.ListPendingClaims(ctx, e.database, session.Building)
	}
	if err != nil {
		return err
	}

	if len(claims) == 0 {
		if *resolved {
			fmt.Println("No resolved claims.")
		} else {
			fmt.Println("No pending claims. New claims appear here when submitted from browse.")
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSUBMITTED\tITEM\tCLAIMANT\tUNIQUE DETAIL")
	for _, c := range claims {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s <%s>\t%s\n",
			c.ID, c.Status, c.SubmittedAt.Format("2006-01-02 15:04"),
			c.ItemTitle, c.ClaimantName, c.ClaimantEmail, c.UniqueDetail)
	}
	w.Flush()
	return nil
}

func claimsResolve(args []string, action string) error {
	fs := flag.NewFlagSet("claims "+action, flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: reclaim claims %s <claim-id>", action)
	}
	id := fs.Arg(0)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	session := requireSession(e)
	ctx := context.Background()

	// Scope check: the claim's item must belong to the session's building.
	claim, err := store.GetClaim(ctx, e.database, id)
	if err != nil {
		return err
	}
	if claim == nil {
		return fmt.Errorf("no claim with id %s", id)
	}
	if _, err := scopedItem(ctx, e, session, claim.ItemID); err != nil {
		return fmt.Errorf("no claim with id %s in %s", id, session.Building)
	}

	switch action {
	case "approve":
		err = store.ApproveClaim(ctx, e.database, id)
	case "reject":
		err = store.RejectClaim(ctx, e.database, id)
	case "return":
		err = store.ReturnClaim(ctx, e.database, id)
	}
	if errors.Is(err, model.ErrAlreadyResolved) {
		return fmt.Errorf("claim %s is already resolved", id)
	}
	if errors.Is(err, model.ErrInvalidTransition) {
		return errors.New("the item is already returned; its status cannot change")
	}
	if err != nil {
		return err
	}

	switch action {
	case "approve":
		fmt.Println("Claim approved. Item marked as claimed.")
	case "reject":
		fmt.Println("Claim rejected.")
	case "return":
		fmt.Println("Marked as returned.")
	}
	return nil
}

func cmdStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	session := requireSession(e)

	items, err := store.ListItems(context.Background(), e.database, session.Building)
	if err != nil {
		return err
	}

	s := query.Summarize(items)
	fmt.Printf("Building: %s\n\n", session.Building)
	fmt.Printf("Total items:     %d\n", s.Total)
	fmt.Printf("Found items:     %d\n", s.Found)
	fmt.Printf("Lost reports:    %d\n", s.Lost)
	fmt.Printf("Open/unclaimed:  %d\n", s.Open)
	fmt.Printf("Claimed:         %d\n", s.Claimed)
	fmt.Printf("Returned:        %d\n", s.Returned)

	recent := query.Recent(items, 6)
	if len(recent) > 0 {
		fmt.Println("\nRecent items:")
		printItems(recent)
	}
	return nil
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
