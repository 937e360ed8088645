package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
	"github.com/abhishek9621yadav/chatroom-app/internal/tasks"
)

// RoomActivityHandler refreshes the denormalized last-message cache on
// rooms. Stale writes are acceptable; the cache is advisory and every
// send re-enqueues a fresh one.
type RoomActivityHandler struct {
	roomRepo repository.RoomRepository
}

// NewRoomActivityHandler creates a RoomActivityHandler.
func NewRoomActivityHandler(roomRepo repository.RoomRepository) *RoomActivityHandler {
	return &RoomActivityHandler{roomRepo: roomRepo}
}

// ProcessTask implements asynq.Handler.
func (h *RoomActivityHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.RoomActivityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logrus.WithError(err).Error("Failed to unmarshal room activity payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"task_type": t.Type(),
		"room_id":   payload.RoomID,
	})

	if err := h.roomRepo.UpdateLastMessage(ctx, payload.RoomID, payload.Content, payload.SenderID, payload.SentAt); err != nil {
		logCtx.WithError(err).Error("Failed to update room last message cache")
		return fmt.Errorf("failed to update last message for room %d: %w", payload.RoomID, err)
	}

	logCtx.Debug("Room activity task processed")
	return nil
}

// PresenceSweepHandler reconciles users.online in MySQL from the Redis
// presence set. The durable flag lags live presence by at most one
// sweep interval.
type PresenceSweepHandler struct {
	presenceRepo repository.PresenceRepository
	userRepo     repository.UserRepository
}

// NewPresenceSweepHandler creates a PresenceSweepHandler.
func NewPresenceSweepHandler(presenceRepo repository.PresenceRepository, userRepo repository.UserRepository) *PresenceSweepHandler {
	return &PresenceSweepHandler{presenceRepo: presenceRepo, userRepo: userRepo}
}

// ProcessTask implements asynq.Handler.
func (h *PresenceSweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	onlineIDs, err := h.presenceRepo.OnlineIDs(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to read online presence set")
		return fmt.Errorf("failed to read presence set: %w", err)
	}

	if err := h.userRepo.SetOnline(ctx, onlineIDs); err != nil {
		logrus.WithError(err).Error("Failed to reconcile online flags")
		return fmt.Errorf("failed to reconcile online flags: %w", err)
	}

	logrus.WithField("online_count", len(onlineIDs)).Debug("Presence sweep processed")
	return nil
}
