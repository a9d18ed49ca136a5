package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrChecksumMismatch is returned when a downloaded archive does not
	// match its published digest.
	ErrChecksumMismatch = errors.New("archive: checksum mismatch")

	// ErrEntryNotFound is returned when an archive has no entry with the
	// requested name.
	ErrEntryNotFound = errors.New("archive: entry not found")
)

// IntegrityError reports a downloaded archive whose digest differs from the
// expected one.
type IntegrityError struct {
	URL  string
	Want string
	Got  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("archive: checksum mismatch for %s: want %s, got %s", e.URL, e.Want, e.Got)
}

func (e *IntegrityError) Unwrap() error { return ErrChecksumMismatch }
