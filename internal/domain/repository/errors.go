package repository

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist or is not owned
	// by the requesting user. The two cases are deliberately
	// indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness constraint is violated,
	// typically by a concurrent signup for the same email or Google id.
	ErrConflict = errors.New("conflict")
)
