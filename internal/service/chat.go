package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
	"github.com/abhishek9621yadav/chatroom-app/internal/tasks"
)

// Broadcaster fans a persisted message out to the room's live
// subscribers. The hub implements it; the service never sees
// connections directly.
type Broadcaster interface {
	BroadcastMessage(roomID uint, msg *domain.Message)
}

// SendMessageInput is one inbound message, from REST or WebSocket.
type SendMessageInput struct {
	RoomID  uint
	Type    string
	Content string
}

// ChatService is the single path every message takes: authorization,
// validation, durable append, then fan-out. Both transports call the
// same SendMessage, so "broadcast only after durable append" holds
// everywhere by construction.
type ChatService struct {
	roomRepo    repository.RoomRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	asynqClient *asynq.Client
	broadcaster Broadcaster
}

// NewChatService creates a ChatService. The broadcaster is attached
// later via SetBroadcaster because the hub needs the service too.
// asynqClient may be nil; enqueueing is then skipped.
func NewChatService(roomRepo repository.RoomRepository, messageRepo repository.MessageRepository, userRepo repository.UserRepository, asynqClient *asynq.Client) *ChatService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for ChatService")
	}
	if messageRepo == nil {
		panic("MessageRepository cannot be nil for ChatService")
	}
	if userRepo == nil {
		panic("UserRepository cannot be nil for ChatService")
	}
	return &ChatService{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		asynqClient: asynqClient,
	}
}

// SetBroadcaster attaches the live fan-out. Called once during wiring,
// before the server starts accepting traffic.
func (s *ChatService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SendMessage validates, durably appends and then broadcasts one
// message. On any error before the append returns nil, nothing is
// broadcast and nothing is stored. Post-append steps (last-message
// cache, fan-out) are best-effort; the append is the commit point.
func (s *ChatService) SendMessage(ctx context.Context, senderID uint, in SendMessageInput) (*domain.Message, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": senderID, "room_id": in.RoomID})

	if _, err := s.roomRepo.FindByID(ctx, in.RoomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to load room for send")
		return nil, ErrInternalServer
	}

	member, err := s.roomRepo.IsMember(ctx, in.RoomID, senderID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to check membership for send")
		return nil, ErrInternalServer
	}
	if !member {
		logCtx.Warn("Send rejected: not a room member")
		return nil, ErrNotRoomMember
	}

	if in.Type == "" {
		in.Type = domain.MessageTypeText
	}
	if !domain.ValidMessageType(in.Type) {
		return nil, fmt.Errorf("%w: unknown message type %q", ErrValidation, in.Type)
	}
	content := strings.TrimSpace(in.Content)
	// Length limits are in characters, not bytes, so multibyte text
	// gets the same budget as ASCII.
	if n := utf8.RuneCountInString(content); n < domain.MinContentLength || n > domain.MaxContentLength {
		return nil, fmt.Errorf("%w: content must be %d-%d characters", ErrValidation, domain.MinContentLength, domain.MaxContentLength)
	}

	msg := &domain.Message{
		RoomID:   in.RoomID,
		SenderID: senderID,
		Type:     in.Type,
		Content:  content,
	}
	if err := s.messageRepo.Append(ctx, msg); err != nil {
		logCtx.WithError(err).Error("Failed to append message")
		return nil, ErrInternalServer
	}

	if refs, err := s.userRepo.RefsByIDs(ctx, []uint{senderID}); err == nil {
		if ref, ok := refs[senderID]; ok {
			msg.Sender = &ref
		}
	} else {
		logCtx.WithError(err).Warn("Failed to load sender ref for broadcast")
	}
	if msg.Sender == nil {
		msg.Sender = &domain.UserRef{ID: senderID}
	}

	if s.asynqClient != nil {
		task, err := tasks.NewRoomActivityTask(msg.RoomID, msg.SenderID, msg.Content, msg.CreatedAt)
		if err == nil {
			_, err = s.asynqClient.Enqueue(task, asynq.Queue("low"))
		}
		if err != nil {
			logCtx.WithError(err).Warn("Failed to enqueue room activity task")
		}
	} else if err := s.roomRepo.UpdateLastMessage(ctx, msg.RoomID, msg.Content, msg.SenderID, msg.CreatedAt); err != nil {
		logCtx.WithError(err).Warn("Failed to update last message cache")
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(msg.RoomID, msg)
	}

	logCtx.WithField("message_id", msg.ID).Info("Message sent")
	return msg, nil
}

// History returns a room's message history for a member, in ascending
// append order. sinceID is the reconnect watermark; clients pass the
// last id they saw and receive everything after it.
func (s *ChatService) History(ctx context.Context, userID, roomID, sinceID uint, limit int) ([]domain.Message, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	if _, err := s.roomRepo.FindByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to load room for history")
		return nil, ErrInternalServer
	}

	member, err := s.roomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to check membership for history")
		return nil, ErrInternalServer
	}
	if !member {
		return nil, ErrNotRoomMember
	}

	msgs, err := s.messageRepo.History(ctx, roomID, sinceID, limit)
	if err != nil {
		logCtx.WithError(err).Error("Failed to read message history")
		return nil, ErrInternalServer
	}

	if len(msgs) > 0 {
		ids := make([]uint, 0, len(msgs))
		seen := make(map[uint]struct{}, len(msgs))
		for i := range msgs {
			if _, ok := seen[msgs[i].SenderID]; !ok {
				seen[msgs[i].SenderID] = struct{}{}
				ids = append(ids, msgs[i].SenderID)
			}
		}
		refs, err := s.userRepo.RefsByIDs(ctx, ids)
		if err != nil {
			logCtx.WithError(err).Warn("Failed to load sender refs for history")
		} else {
			for i := range msgs {
				if ref, ok := refs[msgs[i].SenderID]; ok {
					r := ref
					msgs[i].Sender = &r
				}
			}
		}
	}
	return msgs, nil
}

// MarkSeen records the user as having read the room's current messages.
// Idempotent, and never marks the user's own messages.
func (s *ChatService) MarkSeen(ctx context.Context, userID, roomID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	member, err := s.roomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to check membership for mark seen")
		return ErrInternalServer
	}
	if !member {
		return ErrNotRoomMember
	}

	if err := s.messageRepo.MarkSeen(ctx, roomID, userID); err != nil {
		logCtx.WithError(err).Error("Failed to mark messages seen")
		return ErrInternalServer
	}
	return nil
}

// UnreadCount returns the member's unread count for one room.
func (s *ChatService) UnreadCount(ctx context.Context, userID, roomID uint) (int64, error) {
	member, err := s.roomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": userID, "room_id": roomID}).
			Error("Failed to check membership for unread count")
		return 0, ErrInternalServer
	}
	if !member {
		return 0, ErrNotRoomMember
	}

	count, err := s.messageRepo.UnreadCount(ctx, roomID, userID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": userID, "room_id": roomID}).
			Error("Failed to count unread messages")
		return 0, ErrInternalServer
	}
	return count, nil
}
