package testutil

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// ZipMethodZstd is the zip method id used for zstd compressed entries.
const ZipMethodZstd = zstd.ZipMethodWinZip

// Genres is the MovieLens-1M category list.
var Genres = []string{
	"Action", "Adventure", "Animation", "Children's", "Comedy", "Crime",
	"Documentary", "Drama", "Fantasy", "Film-Noir", "Horror", "Musical",
	"Mystery", "Romance", "Sci-Fi", "Thriller", "War", "Western",
}

// Ages is the MovieLens-1M age anchor table.
var Ages = []int{1, 18, 25, 35, 45, 50, 56}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Corpus holds the raw lines of the three MovieLens entries.
type Corpus struct {
	Movies  []string
	Users   []string
	Ratings []string
}

// Corpus generates a consistent synthetic corpus: movie ids 1..numMovies,
// user ids 1..numUsers and numRatings ratings referencing only those ids.
func (r *RNG) Corpus(numMovies, numUsers, numRatings int) Corpus {
	r.mu.Lock()
	defer r.mu.Unlock()

	var c Corpus
	for id := 1; id <= numMovies; id++ {
		words := make([]string, 1+r.rand.Intn(3))
		for i := range words {
			words[i] = fmt.Sprintf("Word%d", r.rand.Intn(40))
		}
		genres := make([]string, 1+r.rand.Intn(3))
		for i := range genres {
			genres[i] = Genres[r.rand.Intn(len(Genres))]
		}
		year := 1919 + r.rand.Intn(82)
		c.Movies = append(c.Movies, fmt.Sprintf("%d::%s (%d)::%s",
			id, strings.Join(words, " "), year, strings.Join(genres, "|")))
	}

	for id := 1; id <= numUsers; id++ {
		gender := "M"
		if r.rand.Intn(2) == 1 {
			gender = "F"
		}
		c.Users = append(c.Users, fmt.Sprintf("%d::%s::%d::%d::%05d",
			id, gender, Ages[r.rand.Intn(len(Ages))], r.rand.Intn(21), r.rand.Intn(100000)))
	}

	for i := 0; i < numRatings; i++ {
		c.Ratings = append(c.Ratings, fmt.Sprintf("%d::%d::%d::%d",
			1+r.rand.Intn(numUsers), 1+r.rand.Intn(numMovies), 1+r.rand.Intn(5), 956703932+i))
	}

	return c
}

// Files renders the corpus as the three .dat entries below dir.
func (c Corpus) Files(dir string) map[string][]byte {
	join := func(lines []string) []byte {
		if len(lines) == 0 {
			return nil
		}
		return []byte(strings.Join(lines, "\n") + "\n")
	}
	return map[string][]byte{
		dir + "/movies.dat":  join(c.Movies),
		dir + "/users.dat":   join(c.Users),
		dir + "/ratings.dat": join(c.Ratings),
	}
}

// ZipBytes packs files into a zip archive using method for every entry.
// Entries are written in name order so equal inputs give equal archives.
func ZipBytes(files map[string][]byte, method uint16) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteArchive writes a zip of files to dir/ml-1m.zip and returns its path.
func WriteArchive(tb testing.TB, dir string, files map[string][]byte, method uint16) string {
	tb.Helper()

	data, err := ZipBytes(files, method)
	if err != nil {
		tb.Fatalf("testutil: build archive: %v", err)
	}

	path := filepath.Join(dir, "ml-1m.zip")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("testutil: write archive: %v", err)
	}
	return path
}
