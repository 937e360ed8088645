// Package tasks defines the asynq task types and payloads shared by
// enqueuers and the worker.
package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names.
const (
	// TypeRoomActivity refreshes a room's denormalized last-message
	// cache after a send. Advisory: losing one is harmless, the next
	// message re-enqueues it.
	TypeRoomActivity = "room:activity"

	// TypePresenceSweep reconciles users.online in MySQL from the Redis
	// presence set. Scheduled periodically.
	TypePresenceSweep = "presence:sweep"
)

// RoomActivityPayload carries the last-message fields for one room.
type RoomActivityPayload struct {
	RoomID   uint      `json:"room_id"`
	SenderID uint      `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

// NewRoomActivityTask builds a room-activity task.
func NewRoomActivityTask(roomID, senderID uint, content string, sentAt time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(RoomActivityPayload{
		RoomID:   roomID,
		SenderID: senderID,
		Content:  content,
		SentAt:   sentAt,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRoomActivity, payload), nil
}

// NewPresenceSweepTask builds a presence-sweep task. It carries no
// payload; the worker reads everything it needs from Redis.
func NewPresenceSweepTask() *asynq.Task {
	return asynq.NewTask(TypePresenceSweep, nil)
}
