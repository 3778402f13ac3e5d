package parser

import (
	"errors"
	"fmt"
)

// The messages are part of the API response and are matched verbatim by clients.
var (
	ErrEmptyInput        = errors.New("Empty file uploaded")
	ErrUnsupportedFormat = errors.New("Unsupported file format")
	ErrEmptyTable        = errors.New("File contains no rows")
)

// ParseError wraps malformed file content.
type ParseError struct {
	Format string // file extension, e.g. ".csv"
	Err    error
}

func (e *ParseError) Error() string {
	if e.Format == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
