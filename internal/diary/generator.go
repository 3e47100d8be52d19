package diary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-boxdlist/internal/config"
)

// ListConfig describes which list to build from a diary.
type ListConfig struct {
	Kind             string // config.ListKindYearEnd or config.ListKindTop
	Year             int    // Watched year for year-end lists, 0 for the current year.
	Month            int    // Optional watched month (1-12), 0 for any.
	Day              int    // Optional watched day (1-31), 0 for any.
	TopN             int    // Entries kept by top lists, 0 for all.
	IncludeRewatches bool
	Ascending        bool   // Lowest rating first.
	Format           string // config.FormatCSV or config.FormatICS
}

// DefaultListConfig returns a year-end CSV list for the current year.
func DefaultListConfig() ListConfig {
	return ListConfig{
		Kind:   config.DefaultListKind,
		TopN:   config.DefaultTopN,
		Format: config.DefaultFormat,
	}
}

// Validate rejects unknown kinds and formats and out-of-range numbers.
func (c ListConfig) Validate() error {
	switch c.Kind {
	case config.ListKindYearEnd, config.ListKindTop:
	default:
		return fmt.Errorf("%w: %s: %q", ErrInvalidConfig, config.ErrUnknownListKind, c.Kind)
	}
	switch c.Format {
	case config.FormatCSV, config.FormatICS:
	default:
		return fmt.Errorf("%w: %s: %q", ErrInvalidConfig, config.ErrUnknownFormat, c.Format)
	}
	if c.TopN < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, config.ErrNegativeTopN)
	}
	if c.Month < 0 || c.Month > 12 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, config.ErrMonthRange)
	}
	if c.Day < 0 || c.Day > 31 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, config.ErrDayRange)
	}
	return nil
}

// ResolvedYear returns Year, or the year of now when Year is 0.
func (c ListConfig) ResolvedYear(now time.Time) int {
	if c.Year != 0 {
		return c.Year
	}
	return now.Year()
}

// Extension returns the file extension matching Format.
func (c ListConfig) Extension() string {
	if c.Format == config.FormatICS {
		return config.ExtICS
	}
	return config.ExtCSV
}

// DefaultName returns the list name used when the user does not provide one,
// e.g. "2024 First Watches Ranked" or "Top 10".
func (c ListConfig) DefaultName(now time.Time) string {
	if c.Kind == config.ListKindTop {
		return fmt.Sprintf(config.FormatTopListName, c.TopN)
	}
	return fmt.Sprintf(config.FormatYearEndListName, c.ResolvedYear(now))
}

// Apply runs the transforms for the configured list kind and returns the selection.
// The input collection is left untouched.
func (c ListConfig) Apply(entries Collection, now time.Time) Collection {
	var out Collection
	switch c.Kind {
	case config.ListKindTop:
		out = entries.Clone()
		if !c.IncludeRewatches {
			out = out.FilterByRewatch(false)
		}
		out.SortByRating(!c.Ascending)
		out = out.Top(c.TopN)
	default:
		out = entries.FilterByWatched(DateFilter{
			Year:  c.ResolvedYear(now),
			Month: c.Month,
			Day:   c.Day,
		})
		if !c.IncludeRewatches {
			out = out.FilterByRewatch(false)
		}
		out.SortByRating(!c.Ascending)
	}
	return out
}

// Generator is the core service running the load, transform and serialize pipeline.
type Generator struct {
	Clock Clock // Interface for time mocking.
}

// NewGenerator returns a Generator on the real clock.
func NewGenerator() *Generator {
	return &Generator{Clock: RealClock{}}
}

// Run loads the diary from src, selects entries according to cfg and serializes them.
// It returns the encoded list, the selected entries and any error.
// A nil src yields ErrNoFileSelected.
func (g *Generator) Run(ctx context.Context, src Source, cfg ListConfig) ([]byte, Collection, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if src == nil {
		return nil, nil, ErrNoFileSelected
	}

	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyKind, cfg.Kind,
		config.LogKeyFormat, cfg.Format,
		config.LogKeyYear, cfg.Year,
		config.LogKeyFile, src.Name(),
	)
	log.InfoContext(ctx, config.MsgListStarted)

	// 1. Acquire Data Stream
	reader, err := src.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, err
	}
	// Best effort close. Errors in Close() for read-only sources are not actionable here.
	defer func() { _ = reader.Close() }()

	// 2. Parse
	entries, err := Parse(ctx, reader)
	if err != nil {
		return nil, nil, err
	}
	log.DebugContext(ctx, config.MsgDiaryParsed, config.LogKeyParsed, len(entries))

	// 3. Select
	now := g.Now()
	selected := cfg.Apply(entries, now)

	// 4. Serialize
	var data []byte
	if cfg.Format == config.FormatICS {
		data, err = CalendarICS(selected, now)
	} else {
		data, err = ListCSV(selected)
	}
	if err != nil {
		return nil, nil, err
	}

	log.InfoContext(ctx, config.MsgListDone,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyParsed, len(entries)),
			slog.Int(config.LogKeyKept, len(selected)),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return data, selected, nil
}

// Now returns the current time from the injected clock.
func (g *Generator) Now() time.Time {
	if g.Clock == nil {
		return time.Now()
	}
	return g.Clock.Now()
}
