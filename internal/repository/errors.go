// Package repository holds the errors shared by every storage adapter.
package repository

import "errors"

var (
	// ErrNotFound indicates no record owned by the caller matched.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("duplicate record")
)
