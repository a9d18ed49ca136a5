// Package testutil provides testing utilities for the movielens packages.
//
// This package is intended for use in tests and benchmarks only.
// It generates synthetic MovieLens corpora from a seeded RNG and packs them
// into zip archives laid out like ml-1m.zip.
//
// # Synthetic Corpora
//
//	rng := testutil.NewRNG(4711)
//	corpus := rng.Corpus(50, 20, 1000) // movies, users, ratings
//
// # Archives
//
//	path := testutil.WriteArchive(t, t.TempDir(), corpus.Files("ml-1m"), zip.Deflate)
package testutil
