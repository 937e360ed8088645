package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
)

// RoomRepository is a mock of repository.RoomRepository.
type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) ExistsByNameDescCreator(ctx context.Context, name, description string, creatorID uint) (bool, error) {
	args := m.Called(ctx, name, description, creatorID)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepository) List(ctx context.Context, filter repository.RoomFilter, page repository.Page) ([]domain.Room, error) {
	args := m.Called(ctx, filter, page)
	if r := args.Get(0); r != nil {
		return r.([]domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) ListForMember(ctx context.Context, userID uint, filter repository.RoomFilter, page repository.Page) ([]domain.Room, error) {
	args := m.Called(ctx, userID, filter, page)
	if r := args.Get(0); r != nil {
		return r.([]domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) AddMember(ctx context.Context, roomID, userID uint) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *RoomRepository) IsMember(ctx context.Context, roomID, userID uint) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepository) MemberCount(ctx context.Context, roomID uint) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RoomRepository) MemberIDs(ctx context.Context, roomID uint) ([]uint, error) {
	args := m.Called(ctx, roomID)
	if ids := args.Get(0); ids != nil {
		return ids.([]uint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) UpdateLastMessage(ctx context.Context, roomID uint, content string, senderID uint, at time.Time) error {
	args := m.Called(ctx, roomID, content, senderID, at)
	return args.Error(0)
}

func (m *RoomRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
