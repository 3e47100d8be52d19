package diary

import (
	"cmp"
	"slices"
	"time"
)

// DateFilter selects entries by watched date. A zero Month or Day matches any value.
type DateFilter struct {
	Year  int
	Month int
	Day   int
}

// Match reports whether t (UTC) falls within the filter.
func (f DateFilter) Match(t time.Time) bool {
	if t.Year() != f.Year {
		return false
	}
	if f.Month != 0 && int(t.Month()) != f.Month {
		return false
	}
	if f.Day != 0 && t.Day() != f.Day {
		return false
	}
	return true
}

// FilterByWatchedDate keeps entries watched during the given calendar year.
func (c Collection) FilterByWatchedDate(year int) Collection {
	return c.FilterByWatched(DateFilter{Year: year})
}

// FilterByWatched keeps entries whose watched date matches f.
// Entries without a parseable watched date are dropped.
func (c Collection) FilterByWatched(f DateFilter) Collection {
	return c.filter(func(e Entry) bool {
		t, ok := e.WatchedOn()
		return ok && f.Match(t)
	})
}

// FilterByRewatch keeps entries whose Rewatch flag equals rewatch.
func (c Collection) FilterByRewatch(rewatch bool) Collection {
	return c.filter(func(e Entry) bool {
		return e.Rewatch == rewatch
	})
}

// SortByRating orders the collection in place. Unrated entries always sort last
// and equal ratings keep their relative order.
func (c Collection) SortByRating(descending bool) {
	slices.SortStableFunc(c, func(a, b Entry) int {
		switch {
		case a.Rating == nil && b.Rating == nil:
			return 0
		case a.Rating == nil:
			return 1
		case b.Rating == nil:
			return -1
		case descending:
			return cmp.Compare(*b.Rating, *a.Rating)
		default:
			return cmp.Compare(*a.Rating, *b.Rating)
		}
	})
}

// Top returns the first n entries as a new collection.
// n <= 0 or n >= len(c) returns a copy of the whole collection.
func (c Collection) Top(n int) Collection {
	if n <= 0 || n >= len(c) {
		return c.Clone()
	}
	return c[:n].Clone()
}

func (c Collection) filter(keep func(Entry) bool) Collection {
	out := make(Collection, 0, len(c))
	for _, e := range c {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
