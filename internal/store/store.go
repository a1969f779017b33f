// Package store is the persistence layer: bun-backed repositories for
// vehicles and offers with plan-driven querying and optimistic locking.
//
// The stores report outcomes through sentinels. ErrNotFound means the row
// does not exist; ErrConflict means a versioned replace lost the race;
// ErrDuplicate means an insert hit a uniqueness rule. The service layer
// translates them into its caller-facing error types. Anything else is a
// wrapped infrastructure fault.
package store

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrNotFound reports that no row matched the given identifier.
	ErrNotFound = errors.New("store: record not found")

	// ErrConflict reports that a versioned update matched the id but not
	// the expected version.
	ErrConflict = errors.New("store: version conflict")

	// ErrDuplicate reports that an insert violated a uniqueness rule, such
	// as the vehicle VIN.
	ErrDuplicate = errors.New("store: duplicate key")
)

func wrapInternal(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
}
