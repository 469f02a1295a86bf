package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/campuslf/reclaim/internal/model"
	"github.com/campuslf/reclaim/internal/query"
	"github.com/campuslf/reclaim/internal/store"
)

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	email := fs.String("email", "", "first staff account email")
	building := fs.String("building", "", "building the account is scoped to")
	password := fs.String("password", "", "account password (auto-generated if empty)")
	fs.Parse(args)

	if *email == "" || *building == "" {
		return errors.New("init requires -email and -building")
	}

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	pw := *password
	generated := false
	if pw == "" {
		pw, err = generatePassword(16)
		if err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
		generated = true
	}

	ctx := context.Background()
	staff, err := store.CreateStaff(ctx, e.database, *email, pw, *building)
	if err != nil {
		return err
	}

	fmt.Printf("Database ready: %s\n", e.cfg.DBPath)
	fmt.Println()
	fmt.Println("Staff account created:")
	fmt.Printf("  Email:    %s\n", staff.Email)
	fmt.Printf("  Building: %s\n", staff.Building)
	if generated {
		fmt.Printf("  Password: %s\n", pw)
		fmt.Println()
		fmt.Println("Save this password — it cannot be recovered.")
	}
	return nil
}

func cmdSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	n, err := store.SeedItemsIfEmpty(context.Background(), e.database, time.Now())
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("Catalog already has items; nothing seeded.")
		return nil
	}
	fmt.Printf("Demo items loaded: %d\n", n)
	return nil
}

func cmdBrowse(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)

	c := query.DefaultCriteria()
	fs.StringVar(&c.Text, "q", "", "free-text search")
	fs.StringVar(&c.Kind, "kind", query.All, "all|found|lost")
	fs.StringVar(&c.Status, "status", query.All, "all|open|claimed|returned")
	fs.StringVar(&c.Building, "building", query.All, "building filter")
	fs.StringVar(&c.Category, "category", query.All, "category filter")
	fs.StringVar(&c.DateFrom, "from", "", "inclusive date lower bound (YYYY-MM-DD)")
	fs.StringVar(&c.DateTo, "to", "", "inclusive date upper bound (YYYY-MM-DD)")
	fs.StringVar(&c.Quick, "quick", query.QuickNone, "none|last7|last30|openOnly")
	fs.StringVar(&c.Sort, "sort", query.SortNewest, "newest|oldest|titleAsc")
	showReturned := fs.Bool("show-returned", false, "include returned items")
	facets := fs.Bool("facets", false, "print building/category facets instead of items")
	fs.Parse(args)
	c.HideReturned = !*showReturned

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	if e.cfg.SeedDemoEnabled() {
		if _, err := store.SeedItemsIfEmpty(ctx, e.database, time.Now()); err != nil {
			return err
		}
	}

	items, err := store.ListItems(ctx, e.database, "")
	if err != nil {
		return err
	}

	if *facets {
		buildings, categories := query.DeriveFacets(items)
		fmt.Println("Buildings:")
		for _, b := range buildings {
			fmt.Printf("  %s\n", b)
		}
		fmt.Println("Categories:")
		for _, cat := range categories {
			fmt.Printf("  %s\n", cat)
		}
		return nil
	}

	list, effective := query.FilterAndSort(items, c, time.Now())

	chips := query.Chips(effective)
	if len(chips) == 0 {
		chips = []string{"No filters"}
	}
	fmt.Printf("[%s]\n", strings.Join(chips, " | "))
	fmt.Printf("%d items\n\n", len(list))

	if len(list) == 0 {
		fmt.Println("No items match your filters. Try clearing filters or `reclaim seed`.")
		return nil
	}

	printItems(list)
	return nil
}

func cmdClaim(args []string) error {
	fs := flag.NewFlagSet("claim", flag.ExitOnError)
	dbPath, cfgPath, logPath := commonFlags(fs)
	itemID := fs.String("item", "", "id of the item being claimed")
	name := fs.String("name", "", "your name")
	email := fs.String("email", "", "your institutional email")
	detail := fs.String("detail", "", "one detail only the owner would know")
	fs.Parse(args)

	e, err := openEnv(*dbPath, *cfgPath, *logPath)
	if err != nil {
		return err
	}
	defer e.Close()

	sub := model.ClaimSubmission{
		ItemID:        *itemID,
		ClaimantName:  *name,
		ClaimantEmail: *email,
		UniqueDetail:  *detail,
	}

	claim, err := store.SubmitClaim(context.Background(), e.database, sub, e.cfg.EmailDomain)
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for f := range verrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(os.Stderr, "%s: %s\n", f, verrs[f])
		}
		os.Exit(1)
	}
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("no item with id %s", *itemID)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Claim submitted (%s). The building will review and contact you.\n", claim.ID)
	return nil
}

func printItems(items []model.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tKIND\tSTATUS\tTITLE\tBUILDING\tLOCATION\tCATEGORY")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Date, item.Kind, item.Status, item.Title,
			item.Building, item.Location, item.Category)
	}
	w.Flush()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
