package diary

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-boxdlist/internal/config"
)

var (
	ErrParse              = errors.New(config.ErrCSVParse)
	ErrUnsupportedContent = errors.New(config.ErrUnsupportedContent)
	ErrDiaryNotInArchive  = errors.New(config.ErrDiaryNotInArchive)
	ErrDiaryTooLarge      = errors.New(config.ErrDiaryTooLarge)
	ErrInvalidConfig      = errors.New(config.ErrInvalidConfig)

	// ErrNoFileSelected is returned when an interactive front end runs without a diary.
	ErrNoFileSelected = errors.New(config.ErrNoFileSelected)
)

// ParseError reports malformed CSV input. It matches ErrParse with errors.Is.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: %v", config.ErrCSVParse, e.Line, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
