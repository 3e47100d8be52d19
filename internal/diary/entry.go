package diary

import (
	"time"

	"github.com/tartampluch/go-boxdlist/internal/config"
)

// Entry is one row of a Letterboxd diary export.
type Entry struct {
	Date        string   // Diary entry creation date, kept as exported.
	Name        string   // Film title.
	Year        int      // Release year, 0 when unknown.
	URI         string   // Letterboxd URI of the film.
	Rating      *float64 // Star rating, nil when the film was not rated.
	Rewatch     bool
	Tags        []string
	WatchedDate string // YYYY-MM-DD.
}

// WatchedOn returns the watched date as UTC midnight.
// The boolean is false when the date is missing or not in YYYY-MM-DD form.
func (e Entry) WatchedOn() (time.Time, bool) {
	if e.WatchedDate == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(config.DateFormatISO, e.WatchedDate, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Rated reports whether the entry carries a rating.
func (e Entry) Rated() bool {
	return e.Rating != nil
}

// Collection is an ordered list of diary entries.
// Filters return new collections; SortByRating reorders in place.
type Collection []Entry

// Clone returns a copy backed by its own array.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}
