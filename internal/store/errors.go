// Package store persists and loads the immutable snapshot the query
// path reads: the flat index plus the three parallel JSON collections.
package store

import "errors"

// Sentinel errors for snapshot operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDataIntegrity indicates the persisted collections are missing,
	// unreadable, or length-mismatched. Fatal to the query path; a
	// snapshot that fails this check must never serve partial results.
	ErrDataIntegrity = errors.New("snapshot data integrity fault")

	// ErrNotFound indicates the snapshot directory does not exist,
	// typically because the offline builder has not run yet.
	ErrNotFound = errors.New("snapshot not found")
)
