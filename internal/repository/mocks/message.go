package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
)

// MessageRepository is a mock of repository.MessageRepository.
type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepository) History(ctx context.Context, roomID uint, sinceID uint, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, roomID, sinceID, limit)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MessageRepository) MarkSeen(ctx context.Context, roomID, userID uint) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *MessageRepository) UnreadCount(ctx context.Context, roomID, userID uint) (int64, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepository) LastMessage(ctx context.Context, roomID uint) (*domain.Message, error) {
	args := m.Called(ctx, roomID)
	if msg := args.Get(0); msg != nil {
		return msg.(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MessageRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
