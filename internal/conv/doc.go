// Package conv provides checked integer conversions for values decoded from
// untrusted storage, such as resource size prefixes and index offsets.
//
// Conversions that are safe by construction (loop indices, record counts
// derived from slice lengths) use plain casts instead.
package conv
