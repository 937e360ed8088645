package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
)

// GormMessageRepository is the GORM implementation of MessageRepository.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a GormMessageRepository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	if db == nil {
		panic("database connection cannot be nil for GormMessageRepository")
	}
	return &GormMessageRepository{db: db}
}

// Append writes the message and lets the database assign id and
// timestamp. Create returns only after the row is committed, which is
// the durability point the delivery coordinator sequences on.
func (r *GormMessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("gorm: append message to room %d: %w", msg.RoomID, err)
	}
	return nil
}

func (r *GormMessageRepository) History(ctx context.Context, roomID uint, sinceID uint, limit int) ([]domain.Message, error) {
	var msgs []domain.Message
	q := r.db.WithContext(ctx).Where("room_id = ?", roomID)
	if sinceID > 0 {
		q = q.Where("id > ?", sinceID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("created_at, id").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("gorm: history of room %d: %w", roomID, err)
	}
	return msgs, nil
}

// MarkSeen sweeps receipts for every message the user has not sent and
// not yet seen. The NOT EXISTS guard plus the (message_id, user_id)
// primary key make repeated sweeps no-ops.
func (r *GormMessageRepository) MarkSeen(ctx context.Context, roomID, userID uint) error {
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO message_seens (message_id, user_id, seen_at)
		SELECT m.id, ?, NOW()
		FROM messages m
		WHERE m.room_id = ?
		  AND m.sender_id <> ?
		  AND NOT EXISTS (
			SELECT 1 FROM message_seens s
			WHERE s.message_id = m.id AND s.user_id = ?
		  )`,
		userID, roomID, userID, userID).Error
	if err != nil {
		return fmt.Errorf("gorm: mark seen in room %d for user %d: %w", roomID, userID, err)
	}
	return nil
}

// UnreadCount also filters out pinned and edited messages; DESIGN.md
// records why that composite filter stays as is.
func (r *GormMessageRepository) UnreadCount(ctx context.Context, roomID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("room_id = ? AND sender_id <> ?", roomID, userID).
		Where("is_deleted = ? AND is_pinned = ? AND is_edited = ?", false, false, false).
		Where("NOT EXISTS (SELECT 1 FROM message_seens s WHERE s.message_id = messages.id AND s.user_id = ?)", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: unread count in room %d for user %d: %w", roomID, userID, err)
	}
	return count, nil
}

func (r *GormMessageRepository) LastMessage(ctx context.Context, roomID uint) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: last message of room %d: %w", roomID, err)
	}
	return &msg, nil
}

func (r *GormMessageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Message{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gorm: count messages: %w", err)
	}
	return count, nil
}
