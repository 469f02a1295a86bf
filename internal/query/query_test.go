package query

import (
	"testing"
	"time"

	"github.com/campuslf/reclaim/internal/model"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func sampleItems() []model.Item {
	return []model.Item{
		{ID: "a", Kind: model.KindFound, Status: model.StatusOpen, Title: "Black Wallet",
			Category: "Wallet", Building: "Engineering", Location: "Entrance desk",
			Date: "2026-02-01", Tags: []string{"wallet", "black"}},
		{ID: "b", Kind: model.KindLost, Status: model.StatusOpen, Title: "Student ID Card",
			Category: "ID / Cards", Building: "Library", Location: "Near elevators",
			Date: "2026-02-20"},
		{ID: "c", Kind: model.KindFound, Status: model.StatusReturned, Title: "Water Bottle",
			Category: "Other", Building: "Gym", Location: "Locker room",
			Date: "2026-02-10"},
		{ID: "d", Kind: model.KindFound, Status: model.StatusClaimed, Title: "AirPods Case",
			Category: "Electronics", Building: "Library", Location: "Study area",
			Date: "2026-02-15", Description: "White case with engraving"},
	}
}

func ids(items []model.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHideReturnedExcludesRegardlessOfOtherFilters(t *testing.T) {
	today := date("2026-02-20")

	criteria := []Criteria{
		DefaultCriteria(),
		func() Criteria { c := DefaultCriteria(); c.Kind = model.KindFound; return c }(),
		func() Criteria { c := DefaultCriteria(); c.Status = model.StatusReturned; return c }(),
		func() Criteria { c := DefaultCriteria(); c.Text = "bottle"; return c }(),
	}

	for _, c := range criteria {
		list, _ := FilterAndSort(sampleItems(), c, today)
		for _, item := range list {
			if item.Status == model.StatusReturned {
				t.Errorf("criteria %+v: returned item %s leaked through", c, item.ID)
			}
		}
	}
}

func TestExplicitReturnedFilterWithFlagOff(t *testing.T) {
	c := DefaultCriteria()
	c.HideReturned = false
	c.Status = model.StatusReturned

	list, _ := FilterAndSort(sampleItems(), c, date("2026-02-20"))
	if !equal(ids(list), []string{"c"}) {
		t.Errorf("expected only the returned item, got %v", ids(list))
	}
}

func TestQuickLast7(t *testing.T) {
	items := []model.Item{
		{ID: "old", Kind: model.KindFound, Status: model.StatusOpen, Title: "Old", Date: "2026-02-10"},
		{ID: "new", Kind: model.KindFound, Status: model.StatusOpen, Title: "New", Date: "2026-02-15"},
	}

	c := DefaultCriteria()
	c.Quick = QuickLast7

	list, effective := FilterAndSort(items, c, date("2026-02-20"))

	if effective.DateFrom != "2026-02-13" {
		t.Errorf("expected effective dateFrom 2026-02-13, got %q", effective.DateFrom)
	}
	if !equal(ids(list), []string{"new"}) {
		t.Errorf("expected only the 02-15 item, got %v", ids(list))
	}
}

func TestQuickOverwritesExplicitDateFromOnly(t *testing.T) {
	c := DefaultCriteria()
	c.Quick = QuickLast7
	c.DateFrom = "2026-01-01"
	c.DateTo = "2026-02-16"

	_, effective := FilterAndSort(sampleItems(), c, date("2026-02-20"))

	if effective.DateFrom != "2026-02-13" {
		t.Errorf("quick filter should overwrite dateFrom, got %q", effective.DateFrom)
	}
	if effective.DateTo != "2026-02-16" {
		t.Errorf("quick filter must not touch dateTo, got %q", effective.DateTo)
	}
}

func TestQuickOpenOnly(t *testing.T) {
	c := DefaultCriteria()
	c.Quick = QuickOpenOnly

	list, effective := FilterAndSort(sampleItems(), c, date("2026-02-20"))

	if effective.Status != model.StatusOpen {
		t.Errorf("expected effective status open, got %q", effective.Status)
	}
	for _, item := range list {
		if item.Status != model.StatusOpen {
			t.Errorf("non-open item %s in openOnly results", item.ID)
		}
	}
}

func TestSortNewest(t *testing.T) {
	items := []model.Item{
		{ID: "1", Kind: model.KindFound, Status: model.StatusOpen, Title: "A", Date: "2026-02-01"},
		{ID: "2", Kind: model.KindFound, Status: model.StatusOpen, Title: "B", Date: "2026-02-20"},
		{ID: "3", Kind: model.KindFound, Status: model.StatusOpen, Title: "C", Date: "2026-02-10"},
	}

	list, _ := FilterAndSort(items, DefaultCriteria(), date("2026-02-21"))
	if !equal(ids(list), []string{"2", "3", "1"}) {
		t.Errorf("expected [2 3 1], got %v", ids(list))
	}
}

func TestSortStableOnDateTies(t *testing.T) {
	items := []model.Item{
		{ID: "x", Kind: model.KindFound, Status: model.StatusOpen, Title: "X", Date: "2026-02-10"},
		{ID: "y", Kind: model.KindFound, Status: model.StatusOpen, Title: "Y", Date: "2026-02-10"},
		{ID: "z", Kind: model.KindFound, Status: model.StatusOpen, Title: "Z", Date: "2026-02-10"},
	}

	list, _ := FilterAndSort(items, DefaultCriteria(), date("2026-02-21"))
	if !equal(ids(list), []string{"x", "y", "z"}) {
		t.Errorf("expected original relative order on ties, got %v", ids(list))
	}
}

func TestSortTitleAsc(t *testing.T) {
	c := DefaultCriteria()
	c.Sort = SortTitleAsc
	c.HideReturned = false

	list, _ := FilterAndSort(sampleItems(), c, date("2026-02-21"))
	want := []string{"d", "a", "b", "c"} // AirPods, Black Wallet, Student ID, Water Bottle
	if !equal(ids(list), want) {
		t.Errorf("expected %v, got %v", want, ids(list))
	}
}

func TestTextSearchMatchesAcrossFields(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"wallet", []string{"a"}},           // title and tag
		{"ENGRAVING", []string{"d"}},        // description, case-insensitive
		{"library", []string{"b", "d"}},     // building
		{"lost", []string{"b"}},             // kind
		{"elevat", []string{"b"}},           // location substring
		{"no-such-thing", nil},
	}

	for _, tt := range tests {
		c := DefaultCriteria()
		c.Text = tt.text
		list, _ := FilterAndSort(sampleItems(), c, date("2026-02-21"))
		if !equal(ids(list), tt.want) {
			t.Errorf("text %q: expected %v, got %v", tt.text, tt.want, ids(list))
		}
	}
}

func TestDateBoundsInclusive(t *testing.T) {
	c := DefaultCriteria()
	c.DateFrom = "2026-02-01"
	c.DateTo = "2026-02-15"
	c.HideReturned = false

	list, _ := FilterAndSort(sampleItems(), c, date("2026-02-21"))
	want := []string{"d", "c", "a"} // newest first within bounds
	if !equal(ids(list), want) {
		t.Errorf("expected %v, got %v", want, ids(list))
	}
}

func TestChips(t *testing.T) {
	c := DefaultCriteria()
	chips := Chips(c)
	if !equal(chips, []string{"Returned: hidden"}) {
		t.Errorf("default criteria should produce only the hidden-returned chip, got %v", chips)
	}

	c.Text = "wallet"
	c.Building = "Library"
	c.Quick = QuickLast7
	chips = Chips(c)
	want := []string{"Search: wallet", "Building: Library", "Returned: hidden", "Quick: last7"}
	if !equal(chips, want) {
		t.Errorf("expected %v, got %v", want, chips)
	}
}

func TestDeriveFacets(t *testing.T) {
	items := append(sampleItems(), model.Item{
		ID: "e", Kind: model.KindFound, Status: model.StatusOpen,
		Title: "Dup", Category: "Wallet", Building: "Library", Date: "2026-02-02",
	})

	buildings, categories := DeriveFacets(items)

	if !equal(buildings, []string{"Engineering", "Gym", "Library"}) {
		t.Errorf("unexpected buildings: %v", buildings)
	}
	if !equal(categories, []string{"Electronics", "ID / Cards", "Other", "Wallet"}) {
		t.Errorf("unexpected categories: %v", categories)
	}
}

func TestScopeToBuilding(t *testing.T) {
	session := &model.Session{Email: "staff@umanitoba.ca", Building: "Library"}

	scoped := ScopeToBuilding(sampleItems(), session)
	for _, item := range scoped {
		if item.Building != "Library" {
			t.Errorf("item %s from %s leaked into Library scope", item.ID, item.Building)
		}
	}
	if !equal(ids(scoped), []string{"b", "d"}) {
		t.Errorf("expected [b d] in original order, got %v", ids(scoped))
	}

	if got := ScopeToBuilding(sampleItems(), nil); got != nil {
		t.Errorf("nil session must scope to nothing, got %v", ids(got))
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleItems())
	if s.Total != 4 || s.Found != 3 || s.Lost != 1 {
		t.Errorf("unexpected kind counts: %+v", s)
	}
	if s.Open != 2 || s.Claimed != 1 || s.Returned != 1 {
		t.Errorf("unexpected status counts: %+v", s)
	}
}

func TestRecent(t *testing.T) {
	recent := Recent(sampleItems(), 2)
	if !equal(ids(recent), []string{"b", "d"}) {
		t.Errorf("expected two newest items [b d], got %v", ids(recent))
	}
}
