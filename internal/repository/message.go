package repository

import (
	"context"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
)

// MessageRepository is the durable, append-only, per-room message log
// with read-state tracking.
type MessageRepository interface {
	// Append durably persists the message and fills in its store
	// assigned ID and timestamp. A nil return guarantees the message
	// will appear in subsequent History reads.
	Append(ctx context.Context, msg *domain.Message) error

	// History returns the room's messages in ascending (timestamp, id)
	// order. sinceID > 0 restricts to messages with id > sinceID, the
	// reconnect watermark. limit <= 0 means no limit. Re-reading the
	// same window is idempotent.
	History(ctx context.Context, roomID uint, sinceID uint, limit int) ([]domain.Message, error)

	// MarkSeen records userID as having seen every message in the room
	// that they did not send and have not already seen. Idempotent.
	MarkSeen(ctx context.Context, roomID, userID uint) error

	// UnreadCount counts messages in the room that userID did not send
	// and has not seen. Deleted, pinned and edited messages are also
	// excluded from the count (see DESIGN.md).
	UnreadCount(ctx context.Context, roomID, userID uint) (int64, error)

	// LastMessage returns the newest message in the room, or
	// ErrNotFound for an empty room.
	LastMessage(ctx context.Context, roomID uint) (*domain.Message, error)

	// Count returns the total number of stored messages.
	Count(ctx context.Context) (int64, error)
}
