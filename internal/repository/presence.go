package repository

import (
	"context"
	"time"
)

// PresenceRepository tracks which users currently hold at least one
// live connection. Backed by Redis; entries carry a TTL so a crashed
// process's users age out instead of appearing online forever.
type PresenceRepository interface {
	// MarkOnline records the user as online for at least ttl. Called on
	// connect and refreshed on every pong.
	MarkOnline(ctx context.Context, userID uint, ttl time.Duration) error

	// MarkOffline removes the user's presence entry. Called when the
	// user's last connection goes away.
	MarkOffline(ctx context.Context, userID uint) error

	// OnlineIDs returns the ids of all currently-online users.
	OnlineIDs(ctx context.Context) ([]uint, error)
}
