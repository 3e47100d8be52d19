package ui

import (
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry is an Entry that only accepts digits from the keyboard.
type NumericalEntry struct {
	widget.Entry
}

// NewNumericalEntry creates a new instance of NumericalEntry.
func NewNumericalEntry() *NumericalEntry {
	entry := &NumericalEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// NewNumericalEntryWithValue creates an entry showing v, or empty when v is 0.
func NewNumericalEntryWithValue(v int) *NumericalEntry {
	entry := NewNumericalEntry()
	if v != 0 {
		entry.SetText(strconv.Itoa(v))
	}
	return entry
}

// TypedRune filters keystrokes to digits. Pasted text bypasses it; see IntValue.
func (e *NumericalEntry) TypedRune(r rune) {
	if r >= '0' && r <= '9' {
		e.Entry.TypedRune(r)
	}
}

// Keyboard requests the numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

// IntValue parses the entry text. An empty entry yields fallback.
func (e *NumericalEntry) IntValue(fallback int) (int, error) {
	return parseIntField(e.Text, fallback)
}

func parseIntField(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Join(errInvalidNumber, err)
	}
	return v, nil
}
