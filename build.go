package movielens

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/hupe1980/movielens/archive"
	"github.com/hupe1980/movielens/metadata"
	"github.com/hupe1980/movielens/vocab"
)

// Vocabulary names used in lookup errors.
const (
	WordsVocabulary      = "words"
	CategoriesVocabulary = "categories"
)

// Metadata is the built movie and user tables with their vocabularies.
// It is shared by every caller of a Dataset and must not be modified.
type Metadata struct {
	Movies     map[int]*Movie
	Users      map[int]*User
	Words      *vocab.Vocabulary // lower-cased title words
	Categories *vocab.Vocabulary

	byCategory map[string]*metadata.IDSet
	maxMovieID int
	maxUserID  int
	maxJobID   int
}

// MaxMovieID returns the largest movie id, or 0 without movies.
func (m *Metadata) MaxMovieID() int { return m.maxMovieID }

// MaxUserID returns the largest user id, or 0 without users.
func (m *Metadata) MaxUserID() int { return m.maxUserID }

// MaxJobID returns the largest job id, or 0 without users.
func (m *Metadata) MaxJobID() int { return m.maxJobID }

// MoviesWithCategory returns the ids of the movies tagged with category.
// The set is empty for an unknown category.
func (m *Metadata) MoviesWithCategory(category string) *metadata.IDSet {
	if ids, ok := m.byCategory[category]; ok {
		return ids
	}
	return metadata.NewIDSet()
}

// Example encodes one rating against the tables.
func (m *Metadata) Example(uid, mid, raw int) (Example, error) {
	user, ok := m.Users[uid]
	if !ok {
		return Example{}, &LookupError{Table: "users", Key: fmt.Sprint(uid)}
	}
	movie, ok := m.Movies[mid]
	if !ok {
		return Example{}, &LookupError{Table: "movies", Key: fmt.Sprint(mid)}
	}

	em, err := movie.Encode(m)
	if err != nil {
		return Example{}, err
	}

	return Example{
		User:   user.Encode(),
		Movie:  em,
		Rating: TransformRating(raw),
	}, nil
}

type buildConfig struct {
	source  Source
	order   vocab.Order
	charset encoding.Encoding
}

// buildMetadata reads the movie and user entries of a. Any malformed line
// fails the whole build.
func buildMetadata(ctx context.Context, a *archive.Archive, cfg buildConfig) (*Metadata, error) {
	meta := &Metadata{
		Movies:     make(map[int]*Movie),
		Users:      make(map[int]*User),
		byCategory: make(map[string]*metadata.IDSet),
	}

	if err := readMovies(ctx, a, cfg, meta); err != nil {
		return nil, err
	}
	if err := readUsers(ctx, a, cfg, meta); err != nil {
		return nil, err
	}

	for _, ids := range meta.byCategory {
		ids.RunOptimize()
	}
	return meta, nil
}

func readMovies(ctx context.Context, a *archive.Archive, cfg buildConfig, meta *Metadata) error {
	entry := cfg.source.MoviesEntry

	rc, err := a.Open(entry)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	words := vocab.NewBuilder(WordsVocabulary, cfg.order)
	categories := vocab.NewBuilder(CategoriesVocabulary, cfg.order)

	sc := newLineScanner(ctx, rc, cfg.charset)
	for sc.Scan() {
		movie, err := parseMovie(sc.Text())
		if err != nil {
			return &ParseError{Entry: entry, Line: sc.Line(), Text: sc.Text(), cause: err}
		}

		for _, c := range movie.Categories {
			categories.Add(c)
		}
		for _, w := range movie.Words() {
			words.Add(strings.ToLower(w))
		}

		meta.Movies[movie.ID] = movie
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", entry, err)
	}

	// Postings and the max id come from the final table so an overwritten
	// duplicate leaves nothing behind.
	for id, movie := range meta.Movies {
		for _, c := range movie.Categories {
			ids, ok := meta.byCategory[c]
			if !ok {
				ids = metadata.NewIDSet()
				meta.byCategory[c] = ids
			}
			ids.Add(uint32(id))
		}
		meta.maxMovieID = max(meta.maxMovieID, id)
	}

	meta.Words = words.Build()
	meta.Categories = categories.Build()
	return nil
}

func readUsers(ctx context.Context, a *archive.Archive, cfg buildConfig, meta *Metadata) error {
	entry := cfg.source.UsersEntry

	rc, err := a.Open(entry)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	sc := newLineScanner(ctx, rc, cfg.charset)
	for sc.Scan() {
		user, err := parseUser(sc.Text())
		if err != nil {
			return &ParseError{Entry: entry, Line: sc.Line(), Text: sc.Text(), cause: err}
		}

		meta.Users[user.ID] = user
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", entry, err)
	}

	for id, user := range meta.Users {
		meta.maxUserID = max(meta.maxUserID, id)
		meta.maxJobID = max(meta.maxJobID, user.JobID)
	}
	return nil
}
