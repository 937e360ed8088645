package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
)

// CreateRoomInput carries a room creation request. MaxMembers of 0
// means "use the default".
type CreateRoomInput struct {
	Name        string
	Description string
	IsPrivate   bool
	Password    string
	MaxMembers  int
}

// RoomService owns the room catalog: creation, joining, listing. It is
// also the membership authority the hub and the delivery coordinator
// cross-check against.
type RoomService struct {
	roomRepo    repository.RoomRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

// NewRoomService creates a RoomService.
func NewRoomService(roomRepo repository.RoomRepository, messageRepo repository.MessageRepository, userRepo repository.UserRepository) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	if messageRepo == nil {
		panic("MessageRepository cannot be nil for RoomService")
	}
	if userRepo == nil {
		panic("UserRepository cannot be nil for RoomService")
	}
	return &RoomService{roomRepo: roomRepo, messageRepo: messageRepo, userRepo: userRepo}
}

// CreateRoom validates and persists a new room with the creator as its
// sole member. Private rooms store only a bcrypt hash of the password.
func (s *RoomService) CreateRoom(ctx context.Context, creatorID uint, in CreateRoomInput) (*domain.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"creator_id": creatorID, "room_name": in.Name})

	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if n := utf8.RuneCountInString(in.Name); n < 3 || n > 100 {
		return nil, fmt.Errorf("%w: name must be 3-100 characters", ErrValidation)
	}
	if n := utf8.RuneCountInString(in.Description); n < 10 || n > 500 {
		return nil, fmt.Errorf("%w: description must be 10-500 characters", ErrValidation)
	}
	if in.IsPrivate && in.Password == "" {
		return nil, fmt.Errorf("%w: password is required for private rooms", ErrValidation)
	}
	if in.MaxMembers == 0 {
		in.MaxMembers = domain.DefaultMaxMembers
	}
	if in.MaxMembers < 1 || in.MaxMembers > domain.MaxMembersLimit {
		return nil, fmt.Errorf("%w: maxMembers must be between 1 and %d", ErrValidation, domain.MaxMembersLimit)
	}

	exists, err := s.roomRepo.ExistsByNameDescCreator(ctx, in.Name, in.Description, creatorID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to check for duplicate room")
		return nil, ErrInternalServer
	}
	if exists {
		return nil, ErrRoomExists
	}

	room := &domain.Room{
		Name:        in.Name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		CreatedBy:   creatorID,
		MaxMembers:  in.MaxMembers,
	}
	if in.IsPrivate {
		hashed, err := hashPassword(in.Password)
		if err != nil {
			logCtx.WithError(err).Error("Failed to hash room password")
			return nil, ErrInternalServer
		}
		room.Password = hashed
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrRoomExists
		}
		logCtx.WithError(err).Error("Failed to save new room")
		return nil, ErrInternalServer
	}

	logCtx.WithField("room_id", room.ID).Info("Room created")
	return room, nil
}

// JoinRoom adds the user to a room's member set. The capacity check is
// enforced by the repository's conditional insert, so concurrent joins
// cannot overshoot maxMembers. Success is what authorizes the hub to
// accept a live subscription for this identity to this room.
func (s *RoomService) JoinRoom(ctx context.Context, userID, roomID uint, password string) (*domain.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to load room for join")
		return nil, ErrInternalServer
	}

	if room.IsPrivate {
		if password == "" {
			return nil, fmt.Errorf("%w: password is required to join private rooms", ErrValidation)
		}
		if !checkPassword(password, room.Password) {
			logCtx.Warn("Join rejected: invalid room password")
			return nil, ErrInvalidPassword
		}
	}

	if err := s.roomRepo.AddMember(ctx, roomID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEntry):
			return nil, ErrAlreadyMember
		case errors.Is(err, repository.ErrRoomFull):
			return nil, ErrRoomFull
		case errors.Is(err, repository.ErrRoomNotFound):
			return nil, ErrRoomNotFound
		default:
			logCtx.WithError(err).Error("Failed to add member")
			return nil, ErrInternalServer
		}
	}

	logCtx.Info("User joined room")
	return room, nil
}

// ListRooms returns the public catalog view. Skip/limit pagination may
// shift under concurrent inserts; callers accept that.
func (s *RoomService) ListRooms(ctx context.Context, filter repository.RoomFilter, page repository.Page) ([]domain.Room, error) {
	rooms, err := s.roomRepo.List(ctx, filter, page)
	if err != nil {
		logrus.WithError(err).Error("Failed to list rooms")
		return nil, ErrInternalServer
	}
	return rooms, nil
}

// ListRoomsForMember returns the user's rooms with the computed
// last-message and unread-count fields for the sidebar view.
func (s *RoomService) ListRoomsForMember(ctx context.Context, userID uint, filter repository.RoomFilter, page repository.Page) ([]domain.RoomSummary, error) {
	logCtx := logrus.WithField("user_id", userID)

	rooms, err := s.roomRepo.ListForMember(ctx, userID, filter, page)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list member rooms")
		return nil, ErrInternalServer
	}

	summaries := make([]domain.RoomSummary, 0, len(rooms))
	for i := range rooms {
		room := rooms[i]
		summary := domain.RoomSummary{Room: room}

		if count, err := s.roomRepo.MemberCount(ctx, room.ID); err == nil {
			summary.MemberCount = count
		} else {
			logCtx.WithError(err).WithField("room_id", room.ID).Warn("Failed to count members")
		}

		last, err := s.messageRepo.LastMessage(ctx, room.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			logCtx.WithError(err).WithField("room_id", room.ID).Warn("Failed to load last message")
		}
		if last != nil {
			sender := domain.UserRef{ID: last.SenderID}
			if refs, err := s.userRepo.RefsByIDs(ctx, []uint{last.SenderID}); err == nil {
				if ref, ok := refs[last.SenderID]; ok {
					sender = ref
				}
			}
			summary.LastMessage = &domain.LastMessageSummary{
				Content:   last.Content,
				Timestamp: last.CreatedAt,
				Sender:    sender,
			}
		}

		unread, err := s.messageRepo.UnreadCount(ctx, room.ID, userID)
		if err != nil {
			logCtx.WithError(err).WithField("room_id", room.ID).Warn("Failed to count unread messages")
		}
		summary.UnreadCount = unread

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// IsMember reports whether the user is a member of the room. The hub
// re-checks this on every join call.
func (s *RoomService) IsMember(ctx context.Context, roomID, userID uint) (bool, error) {
	member, err := s.roomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).
			Error("Failed to check membership")
		return false, ErrInternalServer
	}
	return member, nil
}
