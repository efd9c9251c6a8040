package storage

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when inserting a record whose key already
	// exists and the operation does not upsert.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when the given record fails basic
	// validation, e.g. an empty ID.
	ErrInvalidInput = errors.New("invalid input")
)
