// Package metadata provides compact id sets used to describe the dataset:
// movie ids per category and rating line numbers per split partition.
//
// IDSet wraps a 32-bit Roaring Bitmap. MovieLens ids and line numbers are
// dense non-negative integers, which Roaring stores in run or array
// containers at a fraction of the size of a map or sorted slice.
package metadata
