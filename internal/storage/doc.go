// Package storage defines persistence interfaces for loaded campaign data.
//
// An import is one persisted load: the scalar directive text and the list
// records of a data dictionary, captured together. Implementations (e.g.,
// SQLite) live in subpackages.
//
// Common error types:
//   - ErrNotFound: requested import or entry is missing
package storage
