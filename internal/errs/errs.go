// Package errs defines the error taxonomy shared by the service facades and
// the HTTP boundary. Every expected, caller-recoverable outcome is a distinct
// type so callers can branch with errors.As instead of parsing messages.
package errs

import (
	"errors"
	"fmt"
)

// NotFoundError reports that an entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// DuplicateKeyError reports a natural-key uniqueness violation.
type DuplicateKeyError struct {
	NaturalKey string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("record with natural key already exists: %s", e.NaturalKey)
}

// DuplicateKey builds a DuplicateKeyError for the given natural key value.
func DuplicateKey(naturalKey string) error {
	return &DuplicateKeyError{NaturalKey: naturalKey}
}

// InvalidArgumentError reports a business-rule violation detected before any
// cache or store mutation runs.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string { return e.Reason }

// InvalidArgument builds an InvalidArgumentError with the given reason.
func InvalidArgument(reason string) error {
	return &InvalidArgumentError{Reason: reason}
}

// InvalidArgumentf builds an InvalidArgumentError with a formatted reason.
func InvalidArgumentf(format string, args ...any) error {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidSortFieldError reports a sort field outside the allowed set.
type InvalidSortFieldError struct {
	Field string
}

func (e *InvalidSortFieldError) Error() string {
	return fmt.Sprintf("invalid sort field: %q", e.Field)
}

// InvalidSortField builds an InvalidSortFieldError for the given field name.
func InvalidSortField(field string) error {
	return &InvalidSortFieldError{Field: field}
}

// ConflictingUpdateError reports an optimistic-concurrency loss: the record
// changed between the caller's read and its write.
type ConflictingUpdateError struct {
	Entity string
	ID     string
}

func (e *ConflictingUpdateError) Error() string {
	return fmt.Sprintf("%s with ID %s was modified concurrently", e.Entity, e.ID)
}

// ConflictingUpdate builds a ConflictingUpdateError.
func ConflictingUpdate(entity, id string) error {
	return &ConflictingUpdateError{Entity: entity, ID: id}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsDuplicateKey reports whether err is a DuplicateKeyError.
func IsDuplicateKey(err error) bool {
	var e *DuplicateKeyError
	return errors.As(err, &e)
}

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}

// IsInvalidSortField reports whether err is an InvalidSortFieldError.
func IsInvalidSortField(err error) bool {
	var e *InvalidSortFieldError
	return errors.As(err, &e)
}

// IsConflictingUpdate reports whether err is a ConflictingUpdateError.
func IsConflictingUpdate(err error) bool {
	var e *ConflictingUpdateError
	return errors.As(err, &e)
}
