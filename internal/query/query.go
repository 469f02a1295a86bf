// Package query turns the raw item collection into a scoped, ranked result
// set: filtering, sorting, facet derivation, and the derived UI metadata
// (active-filter chips, counts). Everything here is pure; the store is
// consulted by callers, never by this package.
package query

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/campuslf/reclaim/internal/model"
)

// Criteria describes one browse request. The zero value is not useful;
// start from DefaultCriteria.
type Criteria struct {
	Text     string
	Kind     string // all|found|lost
	Status   string // all|open|claimed|returned
	Building string // all|<building>
	Category string // all|<category>
	DateFrom string // inclusive ISO date bound
	DateTo   string // inclusive ISO date bound

	// HideReturned excludes returned items as an independent pass,
	// regardless of the Status filter. On by default.
	HideReturned bool

	Quick string // none|last7|last30|openOnly
	Sort  string // newest|oldest|titleAsc
}

// Filter field wildcard.
const All = "all"

// Quick filters.
const (
	QuickNone     = "none"
	QuickLast7    = "last7"
	QuickLast30   = "last30"
	QuickOpenOnly = "openOnly"
)

// Sort orders.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortTitleAsc = "titleAsc"
)

// DefaultCriteria returns the browse defaults: everything visible except
// returned items, newest first.
func DefaultCriteria() Criteria {
	return Criteria{
		Kind:         All,
		Status:       All,
		Building:     All,
		Category:     All,
		HideReturned: true,
		Quick:        QuickNone,
		Sort:         SortNewest,
	}
}

// FilterAndSort applies the criteria to the item collection and returns the
// ordered subset plus the effective criteria (after quick-filter expansion)
// for chip rendering. The quick filter is applied before the explicit
// filters and overwrites only the fields it sets; today anchors the
// relative date shortcuts.
func FilterAndSort(items []model.Item, c Criteria, today time.Time) ([]model.Item, Criteria) {
	applied := applyQuick(c, today)

	list := make([]model.Item, 0, len(items))
	for _, item := range items {
		if matches(item, applied) {
			list = append(list, item)
		}
	}

	sortItems(list, applied.Sort)
	return list, applied
}

// applyQuick expands the quick filter into concrete criteria fields.
// last7/last30 overwrite DateFrom; openOnly overwrites Status. Fields the
// quick filter does not set are left alone.
func applyQuick(c Criteria, today time.Time) Criteria {
	iso := func(t time.Time) string { return t.Format("2006-01-02") }

	switch c.Quick {
	case QuickLast7:
		c.DateFrom = iso(today.AddDate(0, 0, -7))
	case QuickLast30:
		c.DateFrom = iso(today.AddDate(0, 0, -30))
	case QuickOpenOnly:
		c.Status = model.StatusOpen
	}
	return c
}

func matches(item model.Item, c Criteria) bool {
	if c.Kind != All && c.Kind != "" && item.Kind != c.Kind {
		return false
	}
	if c.Status != All && c.Status != "" && item.Status != c.Status {
		return false
	}
	if c.Building != All && c.Building != "" && item.Building != c.Building {
		return false
	}
	if c.Category != All && c.Category != "" && item.Category != c.Category {
		return false
	}

	// Independent of the status equality filter above, so "status =
	// returned" still works when the flag is toggled off.
	if c.HideReturned && item.Status == model.StatusReturned {
		return false
	}

	// Inclusive lexicographic bounds; valid because dates are zero-padded
	// ISO YYYY-MM-DD.
	if c.DateFrom != "" && item.Date < c.DateFrom {
		return false
	}
	if c.DateTo != "" && item.Date > c.DateTo {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(c.Text)); q != "" {
		hay := strings.ToLower(strings.Join([]string{
			item.Title,
			item.Category,
			item.Building,
			item.Location,
			item.Description,
			strings.Join(item.Tags, " "),
			item.Kind,
			item.Status,
		}, " | "))
		if !strings.Contains(hay, q) {
			return false
		}
	}

	return true
}

// sortItems orders the list in place. Date sorts compare the ISO strings
// and are stable, so ties keep their original relative order.
func sortItems(list []model.Item, order string) {
	switch order {
	case SortNewest:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Date > list[j].Date })
	case SortOldest:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	case SortTitleAsc:
		coll := collate.New(language.English)
		sort.SliceStable(list, func(i, j int) bool {
			return coll.CompareString(list[i].Title, list[j].Title) < 0
		})
	}
}

// Chips derives the active-filter chip labels from effective criteria.
// Purely derived, never stored.
func Chips(c Criteria) []string {
	var chips []string
	if c.Text != "" {
		chips = append(chips, "Search: "+c.Text)
	}
	if c.Kind != All && c.Kind != "" {
		chips = append(chips, "Type: "+c.Kind)
	}
	if c.Status != All && c.Status != "" {
		chips = append(chips, "Status: "+c.Status)
	}
	if c.Building != All && c.Building != "" {
		chips = append(chips, "Building: "+c.Building)
	}
	if c.Category != All && c.Category != "" {
		chips = append(chips, "Category: "+c.Category)
	}
	if c.DateFrom != "" {
		chips = append(chips, "From: "+c.DateFrom)
	}
	if c.DateTo != "" {
		chips = append(chips, "To: "+c.DateTo)
	}
	if c.HideReturned {
		chips = append(chips, "Returned: hidden")
	}
	if c.Quick != QuickNone && c.Quick != "" {
		chips = append(chips, "Quick: "+c.Quick)
	}
	return chips
}

// DeriveFacets returns the distinct non-empty buildings and categories,
// locale-sorted ascending, for filter dropdowns. Recompute whenever the
// item collection changes.
func DeriveFacets(items []model.Item) (buildings, categories []string) {
	return uniqueSorted(items, func(i model.Item) string { return i.Building }),
		uniqueSorted(items, func(i model.Item) string { return i.Category })
}

func uniqueSorted(items []model.Item, field func(model.Item) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, item := range items {
		v := field(item)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}

	coll := collate.New(language.English)
	sort.SliceStable(values, func(i, j int) bool {
		return coll.CompareString(values[i], values[j]) < 0
	})
	return values
}

// ScopeToBuilding filters an item collection to the session's building,
// preserving order. Every admin-facing read passes through this or an
// equivalent store-level filter.
func ScopeToBuilding(items []model.Item, session *model.Session) []model.Item {
	if session == nil || session.Building == "" {
		return nil
	}
	var scoped []model.Item
	for _, item := range items {
		if item.Building == session.Building {
			scoped = append(scoped, item)
		}
	}
	return scoped
}
