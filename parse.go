package movielens

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
)

const (
	fieldSep    = "::"
	categorySep = "|"

	// checkEvery is how many lines pass between context checks.
	checkEvery = 4096

	maxLineSize = 1 << 20
)

var titlePattern = regexp.MustCompile(`^(.*)\((\d+)\)$`)

// lineScanner yields every line of an entry, whitespace trimmed. Blank lines
// are yielded too and fail field validation in the parsers.
type lineScanner struct {
	ctx  context.Context
	sc   *bufio.Scanner
	line int
	text string
	err  error
}

func newLineScanner(ctx context.Context, r io.Reader, charset encoding.Encoding) *lineScanner {
	if charset != nil {
		r = charset.NewDecoder().Reader(r)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &lineScanner{ctx: ctx, sc: sc, line: -1}
}

func (s *lineScanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.sc.Scan() {
		s.err = s.sc.Err()
		return false
	}
	s.line++
	if s.line%checkEvery == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return false
		}
	}
	s.text = strings.TrimSpace(s.sc.Text())
	return true
}

// Line returns the zero-based line number of the current line.
func (s *lineScanner) Line() int { return s.line }

func (s *lineScanner) Text() string { return s.text }

func (s *lineScanner) Err() error { return s.err }

func splitFields(line string, want int) ([]string, error) {
	fields := strings.Split(line, fieldSep)
	if len(fields) != want {
		return nil, fmt.Errorf("want %d fields, got %d", want, len(fields))
	}
	return fields, nil
}

// parseID accepts ids that fit the uint32 domain of metadata.IDSet.
func parseID(field string) (int, error) {
	id, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// parseMovie parses "id::title (year)::cat1|cat2".
func parseMovie(line string) (*Movie, error) {
	fields, err := splitFields(line, 3)
	if err != nil {
		return nil, err
	}

	id, err := parseID(fields[0])
	if err != nil {
		return nil, err
	}

	m := titlePattern.FindStringSubmatch(fields[1])
	if m == nil {
		return nil, fmt.Errorf("title %q has no trailing (year)", fields[1])
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, err
	}

	return &Movie{
		ID:         id,
		Title:      strings.TrimSpace(m[1]),
		Year:       year,
		Categories: strings.Split(fields[2], categorySep),
	}, nil
}

// parseUser parses "id::gender::age::job::zip".
func parseUser(line string) (*User, error) {
	fields, err := splitFields(line, 5)
	if err != nil {
		return nil, err
	}

	id, err := parseID(fields[0])
	if err != nil {
		return nil, err
	}

	var isMale bool
	switch fields[1] {
	case "M":
		isMale = true
	case "F":
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidGender, fields[1])
	}

	age, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, err
	}
	bucket, err := AgeBucket(age)
	if err != nil {
		return nil, err
	}

	job, err := parseID(fields[3])
	if err != nil {
		return nil, err
	}

	return &User{ID: id, IsMale: isMale, AgeBucket: bucket, JobID: job}, nil
}

// parseRating parses "uid::mid::rating::timestamp". The timestamp is not
// interpreted.
func parseRating(line string) (uid, mid, raw int, err error) {
	fields, err := splitFields(line, 4)
	if err != nil {
		return 0, 0, 0, err
	}
	if uid, err = parseID(fields[0]); err != nil {
		return 0, 0, 0, err
	}
	if mid, err = parseID(fields[1]); err != nil {
		return 0, 0, 0, err
	}
	if raw, err = strconv.Atoi(fields[2]); err != nil {
		return 0, 0, 0, err
	}
	if raw < 1 || raw > 5 {
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrInvalidRating, raw)
	}
	return uid, mid, raw, nil
}
