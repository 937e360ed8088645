package repository

import (
	"context"
	"time"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
)

// RoomFilter narrows room listings. Name matches as a case-insensitive
// substring; IsPrivate filters only when non-nil.
type RoomFilter struct {
	Name      string
	IsPrivate *bool
}

// Page is skip/limit pagination. Results are not stable under
// concurrent inserts; callers accept that, matching the REST contract.
type Page struct {
	Skip  int
	Limit int
}

// RoomRepository is the durable room catalog and membership store.
type RoomRepository interface {
	// Create persists a new room and its creator membership row in one
	// transaction.
	Create(ctx context.Context, room *domain.Room) error

	// FindByID returns the room or ErrRoomNotFound.
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// ExistsByNameDescCreator reports whether the creator already has a
	// room with this exact name and description.
	ExistsByNameDescCreator(ctx context.Context, name, description string, creatorID uint) (bool, error)

	// List returns rooms matching the filter, ordered by id.
	List(ctx context.Context, filter RoomFilter, page Page) ([]domain.Room, error)

	// ListForMember returns rooms the user is a member of, matching the
	// filter, ordered by id.
	ListForMember(ctx context.Context, userID uint, filter RoomFilter, page Page) ([]domain.Room, error)

	// AddMember appends userID to the room's member set. The insert is
	// conditional on current member count < maxMembers so that two
	// concurrent joins cannot both squeeze into the last seat. Returns
	// ErrDuplicateEntry when already a member, ErrRoomFull at capacity,
	// ErrRoomNotFound when the room is gone.
	AddMember(ctx context.Context, roomID, userID uint) error

	// IsMember reports whether userID is a member of roomID.
	IsMember(ctx context.Context, roomID, userID uint) (bool, error)

	// MemberCount returns the room's current member count.
	MemberCount(ctx context.Context, roomID uint) (int64, error)

	// MemberIDs returns the ids of all members of roomID.
	MemberIDs(ctx context.Context, roomID uint) ([]uint, error)

	// UpdateLastMessage refreshes the room's denormalized last-message
	// cache. Advisory: callers log failures and move on.
	UpdateLastMessage(ctx context.Context, roomID uint, content string, senderID uint, at time.Time) error

	// Count returns the total number of rooms.
	Count(ctx context.Context) (int64, error)
}
