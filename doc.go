// Package movielens reads the MovieLens-1M ratings dataset as a reproducible
// stream of encoded training examples.
//
// A Dataset fetches the ml-1m archive once, builds the movie and user tables
// plus the title-word and category vocabularies on first use, and hands out
// Readers that split ratings.dat into train and test partitions with a
// seeded generator. Two Readers built with the same seed and test ratio, one
// for each partition, see every rating line exactly once between them.
//
// Basic usage:
//
//	ds := movielens.New(movielens.WithLogLevel(slog.LevelInfo))
//
//	for ex, err := range ds.Train().All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(ex.Fields()...)
//	}
//
// Built metadata is shared by all callers of a Dataset and must be treated
// as read-only.
package movielens
