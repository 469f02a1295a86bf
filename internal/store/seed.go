package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/campuslf/reclaim/internal/model"
)

// SeedItemsIfEmpty loads demo items when the catalog is empty, so a first
// run never presents an empty catalog. Dates are relative to today.
// Returns the number of items inserted (0 when the catalog already has
// records).
func SeedItemsIfEmpty(ctx context.Context, db *sql.DB, today time.Time) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	daysAgo := func(n int) string {
		return today.AddDate(0, 0, -n).Format("2006-01-02")
	}

	seed := []model.Item{
		{
			Kind: model.KindFound, Status: model.StatusOpen,
			Title: "Black Wallet", Category: "Wallet",
			Building: "Engineering", Location: "Main entrance desk",
			Date:        daysAgo(3),
			Description: "Found near main entrance. Has a small sticker inside.",
			Tags:        []string{"wallet", "black"},
		},
		{
			Kind: model.KindFound, Status: model.StatusClaimed,
			Title: "AirPods Case", Category: "Electronics",
			Building: "Library", Location: "2nd floor study area",
			Date:        daysAgo(4),
			Description: "White case. Ask claimant to describe engraving/mark.",
			Tags:        []string{"airpods", "case"},
		},
		{
			Kind: model.KindLost, Status: model.StatusOpen,
			Title: "Student ID Card", Category: "ID / Cards",
			Building: "Business", Location: "Near elevators",
			Date:         daysAgo(7),
			Description:  "Name starts with M. Please verify student number.",
			ContactEmail: "student@example.com",
			Tags:         []string{"id"},
		},
		{
			Kind: model.KindFound, Status: model.StatusOpen,
			Title: "Silver Keys (3 keys)", Category: "Keys",
			Building: "University Centre", Location: "Outside room 102",
			Date:        daysAgo(1),
			Description: "Keychain says 'Toyota'.",
			Tags:        []string{"keys"},
		},
		{
			Kind: model.KindLost, Status: model.StatusOpen,
			Title: "iPhone (Blue case)", Category: "Electronics",
			Building: "Science", Location: "Lab hallway",
			Date:        daysAgo(10),
			Description: "Blue case with minor scratches.",
			Tags:        []string{"iphone", "phone"},
		},
		{
			Kind: model.KindFound, Status: model.StatusReturned,
			Title: "Water Bottle (Hydro Flask)", Category: "Other",
			Building: "Gym", Location: "Locker room",
			Date:        daysAgo(2),
			Description: "Green bottle. Owner claimed.",
			Tags:        []string{"bottle"},
		},
		{
			Kind: model.KindLost, Status: model.StatusOpen,
			Title: "Glasses (Black Frames)", Category: "Other",
			Building: "Library", Location: "Lecture hall B",
			Date:        daysAgo(6),
			Description: "Black rectangular frames, no case.",
			Tags:        []string{"glasses", "eyewear"},
		},
		{
			Kind: model.KindFound, Status: model.StatusOpen,
			Title: "Notebook (Spiral, Ruled)", Category: "Books / Notes",
			Building: "Science", Location: "Library study desk",
			Date:        daysAgo(9),
			Description: "Blue cover, handwritten notes inside.",
			Tags:        []string{"notebook", "notes"},
		},
	}

	for _, item := range seed {
		if _, err := CreateItem(ctx, db, item); err != nil {
			return 0, fmt.Errorf("seeding demo items: %w", err)
		}
	}
	return len(seed), nil
}
