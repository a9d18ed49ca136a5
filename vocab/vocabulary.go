package vocab

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// ErrUnknownKey is returned when a key is absent from a vocabulary.
var ErrUnknownKey = errors.New("vocab: unknown key")

// LookupError reports a key that is missing from the named vocabulary.
type LookupError struct {
	Vocabulary string
	Key        string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("vocab: key %q not in %s vocabulary", e.Key, e.Vocabulary)
}

func (e *LookupError) Unwrap() error { return ErrUnknownKey }

// Order selects how codes are assigned when a vocabulary is built.
type Order int

const (
	// Sorted assigns codes in byte order of the keys.
	Sorted Order = iota
	// FirstSeen assigns codes in order of first insertion.
	FirstSeen
)

func (o Order) String() string {
	switch o {
	case Sorted:
		return "sorted"
	case FirstSeen:
		return "first-seen"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// Builder accumulates the distinct keys of one vocabulary.
// A Builder is not safe for concurrent use.
type Builder struct {
	name  string
	order Order
	seen  map[string]struct{}
	keys  []string
}

// NewBuilder creates a Builder for the named vocabulary.
func NewBuilder(name string, order Order) *Builder {
	return &Builder{
		name:  name,
		order: order,
		seen:  make(map[string]struct{}),
	}
}

// Add records key. Repeated keys are ignored.
func (b *Builder) Add(key string) {
	if _, ok := b.seen[key]; ok {
		return
	}
	b.seen[key] = struct{}{}
	b.keys = append(b.keys, key)
}

// Len returns the number of distinct keys added so far.
func (b *Builder) Len() int {
	return len(b.keys)
}

// Build freezes the keys into a Vocabulary.
// The Builder may keep being used; later keys do not affect the result.
func (b *Builder) Build() *Vocabulary {
	keys := slices.Clone(b.keys)
	if b.order == Sorted {
		slices.Sort(keys)
	}

	codes := make(map[string]int, len(keys))
	for i, k := range keys {
		codes[k] = i
	}

	return &Vocabulary{
		name:  b.name,
		codes: codes,
		keys:  keys,
	}
}

// Vocabulary is an immutable bijection from keys to [0, Len()).
// It is safe for concurrent use.
type Vocabulary struct {
	name  string
	codes map[string]int
	keys  []string
}

// Name returns the vocabulary name used in errors.
func (v *Vocabulary) Name() string {
	return v.name
}

// Len returns the number of keys.
func (v *Vocabulary) Len() int {
	return len(v.keys)
}

// Code returns the code of key.
func (v *Vocabulary) Code(key string) (int, bool) {
	c, ok := v.codes[key]
	return c, ok
}

// Key returns the key with the given code.
func (v *Vocabulary) Key(code int) (string, bool) {
	if code < 0 || code >= len(v.keys) {
		return "", false
	}
	return v.keys[code], true
}

// Encode returns the code of key, or a *LookupError.
func (v *Vocabulary) Encode(key string) (int, error) {
	c, ok := v.codes[key]
	if !ok {
		return 0, &LookupError{Vocabulary: v.name, Key: key}
	}
	return c, nil
}

// EncodeAll encodes keys element-wise, preserving order.
func (v *Vocabulary) EncodeAll(keys []string) ([]int, error) {
	out := make([]int, len(keys))
	for i, k := range keys {
		c, err := v.Encode(k)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Keys returns the keys ordered by code.
func (v *Vocabulary) Keys() []string {
	return slices.Clone(v.keys)
}

// Map returns a copy of the key to code mapping.
func (v *Vocabulary) Map() map[string]int {
	return maps.Clone(v.codes)
}

// All iterates keys and codes in code order.
func (v *Vocabulary) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for i, k := range v.keys {
			if !yield(k, i) {
				return
			}
		}
	}
}

// Validate checks the bijection onto [0, Len()).
func (v *Vocabulary) Validate() error {
	if len(v.codes) != len(v.keys) {
		return fmt.Errorf("vocab: %s has %d codes for %d keys", v.name, len(v.codes), len(v.keys))
	}
	for i, k := range v.keys {
		if c, ok := v.codes[k]; !ok || c != i {
			return fmt.Errorf("vocab: %s key %q maps to %d, want %d", v.name, k, c, i)
		}
	}
	return nil
}
