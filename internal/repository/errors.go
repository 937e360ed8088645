package repository

import "errors"

// Sentinel errors shared by all repository implementations. Services
// match on these with errors.Is and translate them into business
// errors.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means an insert or update violated a unique
	// constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
	// ErrRoomFull means a membership insert was rejected because the
	// room is at capacity.
	ErrRoomFull = errors.New("repository: room at capacity")
)

// Per-resource aliases, kept for call-site readability.
var (
	ErrUserNotFound = ErrNotFound
	ErrRoomNotFound = ErrNotFound
)
