package metadata

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// IDSet implements a set of non-negative 32-bit ids.
// It wraps the official roaring implementation.
//
// IDSet is not safe for concurrent mutation; sets returned from a built
// dataset are read-only and may be shared between goroutines.
type IDSet struct {
	rb *roaring.Bitmap
}

// NewIDSet creates a new empty set.
func NewIDSet() *IDSet {
	return &IDSet{
		rb: roaring.New(),
	}
}

// Of creates a set holding ids.
func Of(ids ...uint32) *IDSet {
	return &IDSet{
		rb: roaring.BitmapOf(ids...),
	}
}

// Add adds an id to the set.
func (s *IDSet) Add(id uint32) {
	s.rb.Add(id)
}

// Contains checks if an id is in the set.
func (s *IDSet) Contains(id uint32) bool {
	return s.rb.Contains(id)
}

// IsEmpty returns true if the set is empty.
func (s *IDSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of elements in the set.
func (s *IDSet) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// Max returns the largest id, or false for an empty set.
func (s *IDSet) Max() (uint32, bool) {
	if s.rb.IsEmpty() {
		return 0, false
	}
	return s.rb.Maximum(), true
}

// Clone returns a deep copy of the set.
func (s *IDSet) Clone() *IDSet {
	return &IDSet{
		rb: s.rb.Clone(),
	}
}

// All returns an iterator over the ids in ascending order.
func (s *IDSet) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// ToSlice returns the ids in ascending order.
func (s *IDSet) ToSlice() []uint32 {
	return s.rb.ToArray()
}

// Intersects reports whether the two sets share at least one id.
func (s *IDSet) Intersects(other *IDSet) bool {
	return s.rb.Intersects(other.rb)
}

// Equals reports whether both sets hold the same ids.
func (s *IDSet) Equals(other *IDSet) bool {
	return s.rb.Equals(other.rb)
}

// And returns the intersection of two sets.
func And(a, b *IDSet) *IDSet {
	return &IDSet{rb: roaring.And(a.rb, b.rb)}
}

// Or returns the union of two sets.
func Or(a, b *IDSet) *IDSet {
	return &IDSet{rb: roaring.Or(a.rb, b.rb)}
}

// RunOptimize compacts the set after bulk loading. Sets of consecutive line
// numbers shrink to a handful of run containers.
func (s *IDSet) RunOptimize() {
	s.rb.RunOptimize()
}

// GetSizeInBytes returns the serialized size of the set in bytes.
func (s *IDSet) GetSizeInBytes() uint64 {
	return s.rb.GetSizeInBytes()
}
