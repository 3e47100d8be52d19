package diary

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/tartampluch/go-boxdlist/internal/config"
)

const utf8BOM = "\ufeff"

// Parse reads a diary CSV with a header row and maps each record to an Entry.
// Columns are matched by header name; unknown columns are ignored and missing ones
// leave the field at its zero value. Malformed input yields a *ParseError and no entries.
func Parse(ctx context.Context, r io.Reader) (Collection, error) {
	cr := csv.NewReader(r)
	// Field counts are checked by hand so whitespace-only lines can be skipped.
	cr.FieldsPerRecord = -1

	header, err := readHeader(cr)
	if errors.Is(err, io.EOF) {
		return Collection{}, nil
	}
	if err != nil {
		return nil, newParseError(err)
	}
	cols := indexHeader(header)

	entries := Collection{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newParseError(err)
		}
		if isBlank(rec) {
			continue
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{Line: line, Err: csv.ErrFieldCount}
		}

		entries = append(entries, cols.entry(ctx, rec))
	}
	return entries, nil
}

// readHeader returns the first non-blank record.
func readHeader(cr *csv.Reader) ([]string, error) {
	for {
		rec, err := cr.Read()
		if err != nil {
			return nil, err
		}
		if !isBlank(rec) {
			return rec, nil
		}
	}
}

func newParseError(err error) *ParseError {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Err: err}
}

// headerIndex maps a column name to its position in a record.
type headerIndex map[string]int

func indexHeader(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

func (h headerIndex) get(rec []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (h headerIndex) entry(ctx context.Context, rec []string) Entry {
	e := Entry{
		Date:        h.get(rec, config.CSVColDate),
		Name:        h.get(rec, config.CSVColName),
		URI:         h.get(rec, config.CSVColURI),
		Rewatch:     parseRewatch(h.get(rec, config.CSVColRewatch)),
		Tags:        splitTags(h.get(rec, config.CSVColTags)),
		WatchedDate: h.get(rec, config.CSVColWatchedDate),
	}

	if raw := h.get(rec, config.CSVColYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			slog.DebugContext(ctx, config.MsgYearUnknown,
				config.LogKeyComponent, config.CompLoader,
				config.LogKeyName, e.Name,
				config.LogKeyValue, raw)
		}
		e.Year = year
	}

	if raw := h.get(rec, config.CSVColRating); raw != "" {
		e.Rating = parseRating(raw)
		if e.Rating == nil {
			slog.DebugContext(ctx, config.MsgRatingUnrated,
				config.LogKeyComponent, config.CompLoader,
				config.LogKeyName, e.Name,
				config.LogKeyValue, raw)
		}
	}
	return e
}

// parseRating returns nil for empty, non-numeric or non-finite input.
func parseRating(raw string) *float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseRewatch treats an empty cell and the usual "no" spellings as false.
func parseRewatch(raw string) bool {
	if raw == "" {
		return false
	}
	for _, f := range config.RewatchFalseValues {
		if strings.EqualFold(raw, f) {
			return false
		}
	}
	return true
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, config.TagSeparator) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
