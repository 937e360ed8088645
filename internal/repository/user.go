// Package repository declares the storage interfaces the services
// depend on. Implementations live under internal/infra.
package repository

import (
	"context"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
)

// UserRepository stores and retrieves user accounts.
type UserRepository interface {
	// FindByID returns the user or ErrUserNotFound.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindByUsername returns the user or ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// Save creates the user when ID is zero, updates otherwise.
	// Unique-constraint violations map to ErrDuplicateEntry.
	Save(ctx context.Context, user *domain.User) error

	// RefsByIDs returns the trimmed reference shape for the given ids,
	// keyed by user id. Missing ids are simply absent from the map.
	RefsByIDs(ctx context.Context, ids []uint) (map[uint]domain.UserRef, error)

	// Count returns the total number of registered users.
	Count(ctx context.Context) (int64, error)

	// SetOnline overwrites the online flag for exactly the given set of
	// user ids, clearing it for everyone else. Used by the presence
	// sweep.
	SetOnline(ctx context.Context, onlineIDs []uint) error
}
