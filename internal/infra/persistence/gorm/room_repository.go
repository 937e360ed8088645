package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
)

// GormRoomRepository is the GORM implementation of RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

// Create persists the room and its creator membership together, so a
// room never exists without its creator as sole member.
func (r *GormRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		return tx.Create(&domain.RoomMember{RoomID: room.ID, UserID: room.CreatedBy}).Error
	})
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create room %q: %w", room.Name, err)
	}
	return nil
}

func (r *GormRoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id %d: %w", id, err)
	}
	return &room, nil
}

func (r *GormRoomRepository) ExistsByNameDescCreator(ctx context.Context, name, description string, creatorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("name = ? AND description = ? AND created_by = ?", name, description, creatorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: check duplicate room for creator %d: %w", creatorID, err)
	}
	return count > 0, nil
}

func (r *GormRoomRepository) List(ctx context.Context, filter repository.RoomFilter, page repository.Page) ([]domain.Room, error) {
	var rooms []domain.Room
	q := applyRoomFilter(r.db.WithContext(ctx).Model(&domain.Room{}), filter)
	err := q.Order("id").Offset(page.Skip).Limit(normalizeLimit(page.Limit)).Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list rooms: %w", err)
	}
	return rooms, nil
}

func (r *GormRoomRepository) ListForMember(ctx context.Context, userID uint, filter repository.RoomFilter, page repository.Page) ([]domain.Room, error) {
	var rooms []domain.Room
	q := r.db.WithContext(ctx).Model(&domain.Room{}).
		Joins("JOIN room_members rm ON rm.room_id = rooms.id").
		Where("rm.user_id = ?", userID)
	q = applyRoomFilter(q, filter)
	err := q.Order("rooms.id").Offset(page.Skip).Limit(normalizeLimit(page.Limit)).Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list rooms for member %d: %w", userID, err)
	}
	return rooms, nil
}

// AddMember inserts the membership row only while the room is below
// capacity; the capacity check lives inside the INSERT so concurrent
// joins serialize on the database rather than racing a read-then-write.
func (r *GormRoomRepository) AddMember(ctx context.Context, roomID, userID uint) error {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO room_members (room_id, user_id, joined_at)
		SELECT r.id, ?, NOW()
		FROM rooms r
		WHERE r.id = ?
		  AND (SELECT COUNT(*) FROM room_members rm WHERE rm.room_id = r.id) < r.max_members`,
		userID, roomID)
	if res.Error != nil {
		if isDuplicateEntry(res.Error) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: add member %d to room %d: %w", userID, roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the room is gone, the user is already in a full room,
		// or the room is at capacity. Disambiguate for the caller.
		member, err := r.IsMember(ctx, roomID, userID)
		if err != nil {
			return err
		}
		if member {
			return repository.ErrDuplicateEntry
		}
		if _, err := r.FindByID(ctx, roomID); err != nil {
			return err
		}
		return repository.ErrRoomFull
	}
	return nil
}

func (r *GormRoomRepository) IsMember(ctx context.Context, roomID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: check membership of %d in room %d: %w", userID, roomID, err)
	}
	return count > 0, nil
}

func (r *GormRoomRepository) MemberCount(ctx context.Context, roomID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RoomMember{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count members of room %d: %w", roomID, err)
	}
	return count, nil
}

func (r *GormRoomRepository) MemberIDs(ctx context.Context, roomID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.RoomMember{}).
		Where("room_id = ?", roomID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list member ids of room %d: %w", roomID, err)
	}
	return ids, nil
}

func (r *GormRoomRepository) UpdateLastMessage(ctx context.Context, roomID uint, content string, senderID uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"last_message_content":   content,
			"last_message_sender_id": senderID,
			"last_message_at":        at,
		}).Error
	if err != nil {
		return fmt.Errorf("gorm: update last message of room %d: %w", roomID, err)
	}
	return nil
}

func (r *GormRoomRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Room{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gorm: count rooms: %w", err)
	}
	return count, nil
}

// applyRoomFilter adds the optional name substring and privacy filters.
// MySQL's default collation makes the LIKE match case-insensitive.
func applyRoomFilter(q *gorm.DB, filter repository.RoomFilter) *gorm.DB {
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.IsPrivate != nil {
		q = q.Where("is_private = ?", *filter.IsPrivate)
	}
	return q
}

// normalizeLimit applies the API's default page size.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}
