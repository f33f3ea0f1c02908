package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("entity already exists")

	// ErrReferenced is returned when a delete is blocked by rows that still
	// reference the entity.
	ErrReferenced = errors.New("entity is still referenced")
)
