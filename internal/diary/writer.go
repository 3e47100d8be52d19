package diary

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-boxdlist/internal/config"
)

// WriteList serializes the collection as a Letterboxd list import:
// a "Letterboxd URI,Title" header followed by one row per entry.
func WriteList(w io.Writer, c Collection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{config.ListColURI, config.ListColTitle}); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCSVWrite, err)
	}
	for _, e := range c {
		if err := cw.Write([]string{e.URI, e.Name}); err != nil {
			return fmt.Errorf("%s: %w", config.ErrCSVWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCSVWrite, err)
	}
	return nil
}

// ListCSV returns the list import for c as bytes.
func ListCSV(c Collection) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteList(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCalendar serializes the watch history as an iCalendar feed with one all-day
// event per entry. Entries without a valid watched date are skipped.
func WriteCalendar(w io.Writer, c Collection, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, e := range c {
		watched, ok := e.WatchedOn()
		if !ok {
			continue
		}
		event := newWatchEvent(e, watched)
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)
	}

	// A history without watched dates is written as a bare VCALENDAR.
	if len(cal.Children) == 0 {
		_, err := io.WriteString(w, config.StubVCalendar)
		return err
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return nil
}

// CalendarICS returns the iCalendar feed for c as bytes.
func CalendarICS(c Collection, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCalendar(&buf, c, now); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newWatchEvent(e Entry, watched time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, EventUID(e))
	event.Props.SetText(config.PropSummary, eventSummary(e))
	event.Props.SetText(config.PropDescription, eventDescription(e))

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(watched)
	event.Props.Set(dtStartProp)

	if e.URI != "" {
		// Set value manually to avoid the "VALUE=TEXT" param on a URI property
		urlProp := ical.NewProp(config.PropURL)
		urlProp.Value = e.URI
		event.Props.Set(urlProp)
	}

	if len(e.Tags) > 0 {
		escaped := make([]string, len(e.Tags))
		for i, t := range e.Tags {
			escaped[i] = textEscaper.Replace(t)
		}
		catProp := ical.NewProp(config.PropCategories)
		catProp.Value = strings.Join(escaped, config.ICalCategorySep)
		event.Props.Set(catProp)
	}
	return event
}

// textEscaper escapes a single TEXT list item (RFC 5545 3.3.11).
var textEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, "\n", `\n`)

// EventUID derives a stable identifier from the film URI and the watched date,
// so re-exporting the same diary yields the same events.
func EventUID(e Entry) string {
	input := fmt.Sprintf(config.FormatUIDInput, e.URI, e.WatchedDate)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(input)).String()
}

func eventSummary(e Entry) string {
	if e.Year > 0 {
		return fmt.Sprintf(config.FormatEventSummary, e.Name, e.Year)
	}
	return e.Name
}

func eventDescription(e Entry) string {
	desc := config.EventDescUnrated
	if e.Rating != nil {
		desc = fmt.Sprintf(config.FormatEventRating, *e.Rating)
	}
	if e.Rewatch {
		desc += config.EventDescSeparator + config.FormatEventRewatch
	}
	return desc
}
