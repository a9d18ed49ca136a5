// Package vocab maps raw categorical and textual values to dense integer codes.
//
// A Vocabulary is a bijection from a set of distinct keys onto [0, N). It is
// built once by a Builder that sees every key of a full metadata scan, then
// frozen; lookups never add keys. Encoding a key that was not seen during the
// scan is an error, because it means the vocabulary and the records being
// encoded came from different scans.
//
// # Code Assignment
//
// The code given to a particular key depends on the Order:
//
//   - Sorted: codes follow the byte order of the keys. The assignment is
//     canonical and identical across runs and implementations.
//   - FirstSeen: codes follow the order in which keys were first added.
//     It is stable for a given input but changes when input lines move.
//
// Callers that only need distinct codes should rely on the bijection alone.
//
//	b := vocab.NewBuilder("categories", vocab.Sorted)
//	b.Add("Comedy")
//	b.Add("Animation")
//	v := b.Build()
//	code, err := v.Encode("Comedy") // 1
package vocab
