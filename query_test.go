package movielens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries(t *testing.T) {
	files := map[string][]byte{
		"ml-1m/movies.dat": []byte("1::Toy Story (1995)::Animation|Children's|Comedy\n" +
			"3952::Contender, The (2000)::Drama|Thriller\n" +
			"17::Sense and Sensibility (1995)::Drama|Romance\n"),
		"ml-1m/users.dat": []byte("1::F::1::10::48067\n" +
			"6040::M::25::6::11106\n" +
			"12::M::25::20::32793\n"),
		"ml-1m/ratings.dat": []byte("1::1::5::978300760\n"),
	}
	ds := newTestDataset(t, files)
	ctx := context.Background()

	maxMovie, err := ds.MaxMovieID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3952, maxMovie)

	maxUser, err := ds.MaxUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6040, maxUser)

	maxJob, err := ds.MaxJobID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, maxJob)

	words, err := ds.MovieTitleDict(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, words.Len())
	_, ok := words.Code("contender,")
	assert.True(t, ok)

	cats, err := ds.MovieCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t,
		map[string]int{"Animation": 0, "Children's": 1, "Comedy": 2, "Drama": 3, "Romance": 4, "Thriller": 5},
		cats.Map())

	movies, err := ds.MovieInfo(ctx)
	require.NoError(t, err)
	require.Contains(t, movies, 3952)
	assert.Equal(t, "Contender, The", movies[3952].Title)
	assert.Equal(t, 2000, movies[3952].Year)

	users, err := ds.UserInfo(ctx)
	require.NoError(t, err)
	require.Contains(t, users, 12)
	assert.Equal(t, 25, users[12].Age())

	drama, err := ds.MoviesWithCategory(ctx, "Drama")
	require.NoError(t, err)
	assert.Equal(t, []uint32{17, 3952}, drama.ToSlice())
}

func TestQueries_Empty(t *testing.T) {
	ds := newTestDataset(t, map[string][]byte{
		"ml-1m/movies.dat": nil,
		"ml-1m/users.dat":  nil,
	})
	ctx := context.Background()

	maxMovie, err := ds.MaxMovieID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, maxMovie)

	maxJob, err := ds.MaxJobID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, maxJob)

	words, err := ds.MovieTitleDict(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, words.Len())
}
