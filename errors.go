package movielens

import (
	"errors"
	"fmt"

	"github.com/hupe1980/movielens/vocab"
)

var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("malformed line")

	// ErrLookup is matched by every *LookupError.
	ErrLookup = errors.New("lookup failed")

	// ErrUnknownAge is returned for an age outside AgeTable.
	ErrUnknownAge = errors.New("age is not an anchor age")

	// ErrInvalidGender is returned for a gender other than M or F.
	ErrInvalidGender = errors.New("gender must be M or F")

	// ErrInvalidRating is returned for a raw rating outside [1,5].
	ErrInvalidRating = errors.New("rating must be within [1,5]")

	// ErrInvalidTestRatio is returned when the test ratio is outside [0,1].
	ErrInvalidTestRatio = errors.New("test ratio must be within [0,1]")
)

// ParseError reports a line of an archive entry that does not have the
// expected shape. The build or iteration that hit it is aborted.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ParseError struct {
	Entry string
	Line  int // zero-based
	Text  string
	cause error
}

func (e *ParseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s:%d: %q: %v", e.Entry, e.Line+1, e.Text, e.cause)
	}
	return fmt.Sprintf("%s:%d: malformed line %q", e.Entry, e.Line+1, e.Text)
}

func (e *ParseError) Unwrap() error { return e.cause }

// Is reports ErrParse as a match so callers need not know the concrete type.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// LookupError reports a key that is absent from one of the metadata tables.
// It signals an inconsistency between the ratings entry and the movie or
// user entries, or between the tables and their vocabularies.
type LookupError struct {
	Table string
	Key   string
	cause error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup failed: %q not in %s", e.Key, e.Table)
}

func (e *LookupError) Unwrap() error { return e.cause }

// Is reports ErrLookup as a match.
func (e *LookupError) Is(target error) bool { return target == ErrLookup }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var le *vocab.LookupError
	if errors.As(err, &le) {
		return &LookupError{Table: le.Vocabulary, Key: le.Key, cause: err}
	}

	return err
}
