package movielens

import (
	"context"

	"github.com/hupe1980/movielens/metadata"
	"github.com/hupe1980/movielens/vocab"
)

// Metadata returns the built metadata, building it if needed.
func (d *Dataset) Metadata(ctx context.Context) (*Metadata, error) {
	return d.metadata(ctx)
}

// MaxMovieID returns the largest movie id.
func (d *Dataset) MaxMovieID(ctx context.Context) (int, error) {
	meta, err := d.metadata(ctx)
	if err != nil {
		return 0, err
	}
	return meta.MaxMovieID(), nil
}

// MaxUserID returns the largest user id.
func (d *Dataset) MaxUserID(ctx context.Context) (int, error) {
	meta, err := d.metadata(ctx)
	if err != nil {
		return 0, err
	}
	return meta.MaxUserID(), nil
}

// MaxJobID returns the largest job id.
func (d *Dataset) MaxJobID(ctx context.Context) (int, error) {
	meta, err := d.metadata(ctx)
	if err != nil {
		return 0, err
	}
	return meta.MaxJobID(), nil
}

// MovieTitleDict returns the vocabulary of lower-cased title words.
func (d *Dataset) MovieTitleDict(ctx context.Context) (*vocab.Vocabulary, error) {
	meta, err := d.metadata(ctx)
	if err != nil {
		return nil, err
	}
	return meta.Words, nil
}

// MovieCategories returns the category vocabulary.
func (d *Dataset) MovieCategories(ctx context.Context) (*vocab.Vocabulary, error) {
	meta, err := d.metadata(ctx)
	if err != nil {
		return nil, err
	}
	return meta.Categories, nil
}

// MovieInfo returns the movies keyed by id. The map is shared; do not
// modify it.
func (d *Dataset) MovieInfo(ctx context.Context) (map[int]*Movie, error) {
	meta, err := d.metadata(ctx)
	if err != nil {
		return nil, err
	}
	return meta.Movies, nil
}

// UserInfo returns the users keyed by id. The map is shared; do not
// modify it.
func (d *Dataset) UserInfo(ctx context.Context) (map[int]*User, error) {
	meta, err := d.metadata(ctx)
	if err != nil {
		return nil, err
	}
	return meta.Users, nil
}

// MoviesWithCategory returns the ids of the movies tagged with category.
func (d *Dataset) MoviesWithCategory(ctx context.Context, category string) (*metadata.IDSet, error) {
	meta, err := d.metadata(ctx)
	if err != nil {
		return nil, err
	}
	return meta.MoviesWithCategory(category), nil
}
