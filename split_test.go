package movielens

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/movielens/metadata"
	"github.com/hupe1980/movielens/testutil"
)

func TestReader_ToyStory(t *testing.T) {
	ds := newTestDataset(t, toyStory())
	ctx := context.Background()

	train, err := collect(ctx, ds.Train(WithTestRatio(0.1)))
	require.NoError(t, err)
	test, err := collect(ctx, ds.Test(WithTestRatio(0.1)))
	require.NoError(t, err)

	// The single rating lands in exactly one partition.
	require.Equal(t, 1, len(train)+len(test))
	ex := append(train, test...)[0]

	cats, err := ds.MovieCategories(ctx)
	require.NoError(t, err)
	words, err := ds.MovieTitleDict(ctx)
	require.NoError(t, err)

	code := func(v interface{ Code(string) (int, bool) }, key string) int {
		c, ok := v.Code(key)
		require.True(t, ok, key)
		return c
	}

	want := []any{
		1, 1, 0, 10,
		1,
		[]int{code(cats, "Animation"), code(cats, "Children's"), code(cats, "Comedy")},
		[]int{code(words, "toy"), code(words, "story")},
		[]float64{5.0},
	}
	assert.Equal(t, want, ex.Fields())

	// Sorted vocabularies make the codes canonical.
	assert.Equal(t, []int{0, 1, 2}, ex.Movie.Categories)
	assert.Equal(t, []int{1, 0}, ex.Movie.Title)
}

func TestReader_Complementary(t *testing.T) {
	files := testutil.NewRNG(42).Corpus(50, 40, 2000).Files("ml-1m")
	ds := newTestDataset(t, files)
	ctx := context.Background()

	for _, opts := range [][]SplitOption{
		nil,
		{WithSeed(7)},
		{WithTestRatio(0.5)},
		{WithSeed(-3), WithTestRatio(0.25)},
	} {
		trainLines, err := ds.Train(opts...).Lines(ctx)
		require.NoError(t, err)
		testLines, err := ds.Test(opts...).Lines(ctx)
		require.NoError(t, err)

		assert.False(t, trainLines.Intersects(testLines))
		assert.Equal(t, uint64(2000), metadata.Or(trainLines, testLines).Cardinality())

		last, ok := metadata.Or(trainLines, testLines).Max()
		require.True(t, ok)
		assert.Equal(t, uint32(1999), last)

		// The emitted examples carry the same line numbers.
		train, err := collect(ctx, ds.Train(opts...))
		require.NoError(t, err)
		test, err := collect(ctx, ds.Test(opts...))
		require.NoError(t, err)
		assert.Equal(t, int(trainLines.Cardinality()), len(train))
		assert.Equal(t, int(testLines.Cardinality()), len(test))
		for _, ex := range test {
			assert.True(t, testLines.Contains(uint32(ex.Line)))
		}
	}
}

func TestReader_CoversRatings(t *testing.T) {
	corpus := testutil.NewRNG(5).Corpus(20, 10, 500)
	ds := newTestDataset(t, corpus.Files("ml-1m"))
	ctx := context.Background()

	train, err := collect(ctx, ds.Train())
	require.NoError(t, err)
	test, err := collect(ctx, ds.Test())
	require.NoError(t, err)

	byLine := make(map[int]Example, len(corpus.Ratings))
	for _, ex := range append(train, test...) {
		_, dup := byLine[ex.Line]
		require.False(t, dup, "line %d emitted twice", ex.Line)
		byLine[ex.Line] = ex
	}
	require.Len(t, byLine, len(corpus.Ratings))

	for i, line := range corpus.Ratings {
		uid, mid, raw, err := parseRating(line)
		require.NoError(t, err)

		ex := byLine[i]
		assert.Equal(t, uid, ex.User.ID)
		assert.Equal(t, mid, ex.Movie.ID)
		assert.Equal(t, TransformRating(raw), ex.Rating)
	}
}

func TestReader_Deterministic(t *testing.T) {
	files := testutil.NewRNG(11).Corpus(30, 30, 1000).Files("ml-1m")
	ds := newTestDataset(t, files)
	ctx := context.Background()

	r := ds.Test(WithSeed(1234))
	first, err := collect(ctx, r)
	require.NoError(t, err)
	second, err := collect(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := collect(ctx, ds.Test(WithSeed(1234)))
	require.NoError(t, err)
	assert.Equal(t, first, third)

	// A second Dataset over the same archive agrees as well.
	other, err := collect(ctx, newTestDataset(t, files).Test(WithSeed(1234)))
	require.NoError(t, err)
	assert.Equal(t, first, other)
}

func TestReader_SeedChangesSplit(t *testing.T) {
	files := testutil.NewRNG(3).Corpus(10, 10, 1000).Files("ml-1m")
	ds := newTestDataset(t, files)
	ctx := context.Background()

	a, err := ds.Test(WithSeed(1)).Lines(ctx)
	require.NoError(t, err)
	b, err := ds.Test(WithSeed(2)).Lines(ctx)
	require.NoError(t, err)
	assert.False(t, a.Equals(b))
}

func TestReader_TestRatio(t *testing.T) {
	files := testutil.NewRNG(8).Corpus(10, 10, 2000).Files("ml-1m")
	ds := newTestDataset(t, files)
	ctx := context.Background()

	test, err := ds.Test().Lines(ctx)
	require.NoError(t, err)
	share := float64(test.Cardinality()) / 2000
	assert.InDelta(t, DefaultTestRatio, share, 0.05)

	none, err := ds.Test(WithTestRatio(0)).Lines(ctx)
	require.NoError(t, err)
	assert.True(t, none.IsEmpty())

	all, err := ds.Test(WithTestRatio(1)).Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), all.Cardinality())

	for _, ratio := range []float64{-0.1, 1.5} {
		_, err := collect(ctx, ds.Train(WithTestRatio(ratio)))
		assert.ErrorIs(t, err, ErrInvalidTestRatio)
		_, err = ds.Train(WithTestRatio(ratio)).Lines(ctx)
		assert.ErrorIs(t, err, ErrInvalidTestRatio)
	}
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ratings string
		target  error
	}{
		{name: "UnknownUser", ratings: "1::1::5::978300760\n99::1::4::978300761\n", target: ErrLookup},
		{name: "UnknownMovie", ratings: "1::42::5::978300760\n", target: ErrLookup},
		{name: "RatingOutOfRange", ratings: "1::1::6::978300760\n", target: ErrInvalidRating},
		{name: "FieldCount", ratings: "1::1::5\n", target: ErrParse},
		{name: "BlankLine", ratings: "1::1::5::978300760\n   \n1::1::4::978300761\n", target: ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := toyStory()
			files["ml-1m/ratings.dat"] = []byte(tt.ratings)
			ds := newTestDataset(t, files)

			// A zero ratio routes every line to train.
			var errs int
			for _, err := range ds.Train(WithTestRatio(0)).All(context.Background()) {
				if err != nil {
					errs++
					assert.ErrorIs(t, err, tt.target)
				}
			}
			assert.Equal(t, 1, errs)
		})
	}
}

func TestReader_BlankLineConsumesDraw(t *testing.T) {
	files := toyStory()
	files["ml-1m/ratings.dat"] = []byte("1::1::5::978300760\n\n1::1::4::978300761\n1::1::3::978300762\n")
	ds := newTestDataset(t, files)
	ctx := context.Background()

	const seed, ratio = 7, 0.5

	rng := rand.New(rand.NewSource(seed))
	var want []uint32
	for line := range 4 {
		if rng.Float64() < ratio {
			want = append(want, uint32(line))
		}
	}

	test, err := ds.Test(WithSeed(seed), WithTestRatio(ratio)).Lines(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, test.ToSlice())

	train, err := ds.Train(WithSeed(seed), WithTestRatio(ratio)).Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), train.Cardinality()+test.Cardinality())
	assert.False(t, train.Intersects(test))
}

func TestReader_LookupErrorDetails(t *testing.T) {
	files := toyStory()
	files["ml-1m/ratings.dat"] = []byte("99::1::4::978300761\n")
	ds := newTestDataset(t, files)

	_, err := collect(context.Background(), ds.Test(WithTestRatio(1)))
	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "users", le.Table)
	assert.Equal(t, "99", le.Key)
}

func TestReader_StopEarly(t *testing.T) {
	files := testutil.NewRNG(12).Corpus(10, 10, 100).Files("ml-1m")
	metrics := &BasicMetricsCollector{}
	ds := newTestDataset(t, files, WithMetricsCollector(metrics))

	var n int
	for _, err := range ds.Train(WithTestRatio(0)).All(context.Background()) {
		require.NoError(t, err)
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)

	stats := metrics.GetStats()
	assert.Equal(t, int64(0), stats.SplitErrors)
	assert.Equal(t, int64(5), stats.TrainEmitted)
}

func TestDataset_Counts(t *testing.T) {
	files := testutil.NewRNG(21).Corpus(20, 20, 700).Files("ml-1m")
	ds := newTestDataset(t, files)
	ctx := context.Background()

	train, test, err := ds.Counts(ctx, WithSeed(9))
	require.NoError(t, err)
	assert.Equal(t, 700, train+test)

	testLines, err := ds.Test(WithSeed(9)).Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, int(testLines.Cardinality()), test)
}

func TestPartition_String(t *testing.T) {
	assert.Equal(t, "train", TrainPartition.String())
	assert.Equal(t, "test", TestPartition.String())
	assert.Equal(t, "Partition(7)", Partition(7).String())
}
