package query

import (
	"sort"

	"github.com/campuslf/reclaim/internal/model"
)

// Stats summarizes a (already scoped) item collection for the staff
// dashboard.
type Stats struct {
	Total    int
	Found    int
	Lost     int
	Open     int
	Claimed  int
	Returned int
}

// Summarize counts items by kind and status.
func Summarize(items []model.Item) Stats {
	var s Stats
	s.Total = len(items)
	for _, item := range items {
		switch item.Kind {
		case model.KindFound:
			s.Found++
		case model.KindLost:
			s.Lost++
		}
		switch item.Status {
		case model.StatusOpen:
			s.Open++
		case model.StatusClaimed:
			s.Claimed++
		case model.StatusReturned:
			s.Returned++
		}
	}
	return s
}

// Recent returns the n most recently dated items, newest first.
func Recent(items []model.Item, n int) []model.Item {
	recent := make([]model.Item, len(items))
	copy(recent, items)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date > recent[j].Date })
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}
