package movielens

import (
	"fmt"
	"strings"
)

// AgeTable holds the anchor ages of users.dat. A user's age bucket is the
// index of their age in this table.
var AgeTable = [7]int{1, 18, 25, 35, 45, 50, 56}

// AgeBucket returns the index of age in AgeTable.
func AgeBucket(age int) (int, error) {
	for i, a := range AgeTable {
		if a == age {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownAge, age)
}

// TransformRating maps a raw 1..5 star rating onto -3, -1, 1, 3, 5.
func TransformRating(raw int) float64 {
	return float64(raw*2 - 5)
}

// Movie is one row of movies.dat.
type Movie struct {
	ID         int
	Title      string // without the trailing " (year)"
	Year       int
	Categories []string
}

// Words returns the whitespace separated words of the title.
func (m *Movie) Words() []string {
	return strings.Fields(m.Title)
}

// Encode returns the encoded form of m against the vocabularies of meta.
func (m *Movie) Encode(meta *Metadata) (EncodedMovie, error) {
	cats, err := meta.Categories.EncodeAll(m.Categories)
	if err != nil {
		return EncodedMovie{}, translateError(err)
	}

	words := m.Words()
	title := make([]int, len(words))
	for i, w := range words {
		c, err := meta.Words.Encode(strings.ToLower(w))
		if err != nil {
			return EncodedMovie{}, translateError(err)
		}
		title[i] = c
	}

	return EncodedMovie{ID: m.ID, Categories: cats, Title: title}, nil
}

func (m *Movie) String() string {
	return fmt.Sprintf("<Movie id(%d), title(%s), year(%d), categories(%s)>",
		m.ID, m.Title, m.Year, strings.Join(m.Categories, "|"))
}

// User is one row of users.dat. The zip code is not kept.
type User struct {
	ID        int
	IsMale    bool
	AgeBucket int
	JobID     int
}

// Age returns the anchor age of the user's bucket.
func (u *User) Age() int {
	return AgeTable[u.AgeBucket]
}

// Gender returns 0 for male and 1 for female users.
func (u *User) Gender() int {
	if u.IsMale {
		return 0
	}
	return 1
}

// Encode returns the encoded form of u.
func (u *User) Encode() EncodedUser {
	return EncodedUser{
		ID:        u.ID,
		Gender:    u.Gender(),
		AgeBucket: u.AgeBucket,
		JobID:     u.JobID,
	}
}

func (u *User) String() string {
	gender := "F"
	if u.IsMale {
		gender = "M"
	}
	return fmt.Sprintf("<User id(%d), gender(%s), age(%d), job(%d)>", u.ID, gender, u.Age(), u.JobID)
}

// EncodedUser is the numeric form of a User.
type EncodedUser struct {
	ID        int
	Gender    int
	AgeBucket int
	JobID     int
}

// EncodedMovie is the numeric form of a Movie. Categories and Title hold
// vocabulary codes in input order.
type EncodedMovie struct {
	ID         int
	Categories []int
	Title      []int
}

// Example is one encoded rating.
type Example struct {
	User   EncodedUser
	Movie  EncodedMovie
	Rating float64

	// Line is the zero-based line of the rating in the ratings entry.
	Line int
}

// Fields flattens e to
// [uid, gender, age bucket, job, mid, category codes, word codes, [rating]].
func (e Example) Fields() []any {
	return []any{
		e.User.ID, e.User.Gender, e.User.AgeBucket, e.User.JobID,
		e.Movie.ID, e.Movie.Categories, e.Movie.Title,
		[]float64{e.Rating},
	}
}
