package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository/mocks"
	"github.com/abhishek9621yadav/chatroom-app/internal/service"
)

func newRoomService() (*service.RoomService, *mocks.RoomRepository, *mocks.MessageRepository, *mocks.UserRepository) {
	mockRoomRepo := new(mocks.RoomRepository)
	mockMessageRepo := new(mocks.MessageRepository)
	mockUserRepo := new(mocks.UserRepository)
	return service.NewRoomService(mockRoomRepo, mockMessageRepo, mockUserRepo), mockRoomRepo, mockMessageRepo, mockUserRepo
}

func TestRoomService_CreateRoom_Success(t *testing.T) {
	// Arrange
	roomService, mockRoomRepo, _, _ := newRoomService()
	ctx := context.Background()

	mockRoomRepo.On("ExistsByNameDescCreator", ctx, "Dev Chat", "Where the developers hang out", uint(1)).
		Return(false, nil).Once()
	mockRoomRepo.On("Create", ctx, mock.MatchedBy(func(room *domain.Room) bool {
		assert.Equal(t, "Dev Chat", room.Name)
		assert.Equal(t, uint(1), room.CreatedBy)
		assert.Equal(t, domain.DefaultMaxMembers, room.MaxMembers, "zero maxMembers falls back to the default")
		assert.Empty(t, room.Password, "public rooms store no password")
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Room).ID = 10
		}).
		Return(nil).Once()

	// Act
	room, err := roomService.CreateRoom(ctx, 1, service.CreateRoomInput{
		Name:        "Dev Chat",
		Description: "Where the developers hang out",
	})

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, uint(10), room.ID)
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_PrivateHashesPassword(t *testing.T) {
	roomService, mockRoomRepo, _, _ := newRoomService()
	ctx := context.Background()

	mockRoomRepo.On("ExistsByNameDescCreator", ctx, mock.Anything, mock.Anything, uint(1)).
		Return(false, nil).Once()
	mockRoomRepo.On("Create", ctx, mock.MatchedBy(func(room *domain.Room) bool {
		assert.True(t, room.IsPrivate)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(room.Password), []byte("secret1")),
			"stored room password must be the bcrypt hash")
		return true
	})).Return(nil).Once()

	_, err := roomService.CreateRoom(ctx, 1, service.CreateRoomInput{
		Name:        "Private Den",
		Description: "Members only, password required",
		IsPrivate:   true,
		Password:    "secret1",
	})

	assert.NoError(t, err)
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_Validation(t *testing.T) {
	roomService, mockRoomRepo, _, _ := newRoomService()
	ctx := context.Background()

	cases := []struct {
		name  string
		input service.CreateRoomInput
	}{
		{"short name", service.CreateRoomInput{Name: "ab", Description: "long enough description"}},
		{"short description", service.CreateRoomInput{Name: "Dev Chat", Description: "too short"}},
		{"private without password", service.CreateRoomInput{Name: "Dev Chat", Description: "long enough description", IsPrivate: true}},
		{"max members too high", service.CreateRoomInput{Name: "Dev Chat", Description: "long enough description", MaxMembers: domain.MaxMembersLimit + 1}},
		{"max members negative", service.CreateRoomInput{Name: "Dev Chat", Description: "long enough description", MaxMembers: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := roomService.CreateRoom(ctx, 1, tc.input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, service.ErrValidation))
		})
	}
	mockRoomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomService_CreateRoom_MultibyteLengthsCountCharacters(t *testing.T) {
	// A 100-character CJK name is 300 bytes and must still fit the
	// 100-character limit.
	roomService, mockRoomRepo, _, _ := newRoomService()
	ctx := context.Background()
	name := strings.Repeat("房", 100)
	description := strings.Repeat("聊", 500)

	mockRoomRepo.On("ExistsByNameDescCreator", ctx, name, description, uint(1)).
		Return(false, nil).Once()
	mockRoomRepo.On("Create", ctx, mock.AnythingOfType("*domain.Room")).Return(nil).Once()

	_, err := roomService.CreateRoom(ctx, 1, service.CreateRoomInput{
		Name:        name,
		Description: description,
	})

	assert.NoError(t, err)
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_Duplicate(t *testing.T) {
	roomService, mockRoomRepo, _, _ := newRoomService()
	ctx := context.Background()

	mockRoomRepo.On("ExistsByNameDescCreator", ctx, "Dev Chat", "Where the developers hang out", uint(1)).
		Return(true, nil).Once()

	_, err := roomService.CreateRoom(ctx, 1, service.CreateRoomInput{
		Name:        "Dev Chat",
		Description: "Where the developers hang out",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRoomExists))
	mockRoomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomService_JoinRoom_Success(t *testing.T) {
	roomService, mockRoomRepo, _, _ := newRoomService()
	ctx := context.Background()
	room := &domain.Room{ID: 3, Name: "Dev Chat", MaxMembers: 2}

	mockRoomRepo.On("FindByID", ctx, uint(3)).Return(room, nil).Once()
	mockRoomRepo.On("AddMember", ctx, uint(3), uint(9)).Return(nil).Once()

	joined, err := roomService.JoinRoom(ctx, 9, 3, "")

	assert.NoError(t, err)
	assert.Equal(t, room, joined)
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_JoinRoom_PrivatePassword(t *testing.T) {
	roomService, mockRoomRepo, _, _ := newRoomService()
	ctx := context.Background()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	room := &domain.Room{ID: 4, Name: "Private Den", IsPrivate: true, Password: string(hashed)}

	mockRoomRepo.On("FindByID", ctx, uint(4)).Return(room, nil)

	t.Run("missing password", func(t *testing.T) {
		_, err := roomService.JoinRoom(ctx, 9, 4, "")

		require.Error(t, err)
		assert.True(t, errors.Is(err, service.ErrValidation))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := roomService.JoinRoom(ctx, 9, 4, "wrong")

		require.Error(t, err)
		assert.True(t, errors.Is(err, service.ErrInvalidPassword))
	})

	t.Run("correct password", func(t *testing.T) {
		mockRoomRepo.On("AddMember", ctx, uint(4), uint(9)).Return(nil).Once()

		_, err := roomService.JoinRoom(ctx, 9, 4, "secret1")

		assert.NoError(t, err)
	})
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_JoinRoom_CapacityAndConflicts(t *testing.T) {
	roomService, mockRoomRepo, _, _ := newRoomService()
	ctx := context.Background()
	room := &domain.Room{ID: 5, Name: "Tiny Room", MaxMembers: 2}

	mockRoomRepo.On("FindByID", ctx, uint(5)).Return(room, nil)

	t.Run("room full", func(t *testing.T) {
		mockRoomRepo.On("AddMember", ctx, uint(5), uint(30)).Return(repository.ErrRoomFull).Once()

		_, err := roomService.JoinRoom(ctx, 30, 5, "")

		require.Error(t, err)
		assert.True(t, errors.Is(err, service.ErrRoomFull))
	})

	t.Run("already a member", func(t *testing.T) {
		mockRoomRepo.On("AddMember", ctx, uint(5), uint(31)).Return(repository.ErrDuplicateEntry).Once()

		_, err := roomService.JoinRoom(ctx, 31, 5, "")

		require.Error(t, err)
		assert.True(t, errors.Is(err, service.ErrAlreadyMember))
	})
	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_JoinRoom_NotFound(t *testing.T) {
	roomService, mockRoomRepo, _, _ := newRoomService()
	ctx := context.Background()

	mockRoomRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrRoomNotFound).Once()

	_, err := roomService.JoinRoom(ctx, 9, 99, "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRoomNotFound))
	mockRoomRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoomService_ListRoomsForMember_Summaries(t *testing.T) {
	// Arrange
	roomService, mockRoomRepo, mockMessageRepo, mockUserRepo := newRoomService()
	ctx := context.Background()
	sentAt := time.Now().Add(-time.Minute)
	rooms := []domain.Room{{ID: 1, Name: "Dev Chat"}}
	last := &domain.Message{ID: 50, RoomID: 1, SenderID: 2, Content: "hello", CreatedAt: sentAt}

	mockRoomRepo.On("ListForMember", ctx, uint(9), repository.RoomFilter{}, repository.Page{}).
		Return(rooms, nil).Once()
	mockRoomRepo.On("MemberCount", ctx, uint(1)).Return(int64(3), nil).Once()
	mockMessageRepo.On("LastMessage", ctx, uint(1)).Return(last, nil).Once()
	mockUserRepo.On("RefsByIDs", ctx, []uint{2}).
		Return(map[uint]domain.UserRef{2: {ID: 2, Name: "Bob", Username: "bob"}}, nil).Once()
	mockMessageRepo.On("UnreadCount", ctx, uint(1), uint(9)).Return(int64(4), nil).Once()

	// Act
	summaries, err := roomService.ListRoomsForMember(ctx, 9, repository.RoomFilter{}, repository.Page{})

	// Assert
	assert.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(3), summaries[0].MemberCount)
	assert.Equal(t, int64(4), summaries[0].UnreadCount)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "hello", summaries[0].LastMessage.Content)
	assert.Equal(t, "bob", summaries[0].LastMessage.Sender.Username)
	mockRoomRepo.AssertExpectations(t)
	mockMessageRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}
