package hub

import (
	"encoding/json"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
)

// Wire event names. Inbound events come from clients; outbound frames
// go to them.
const (
	EventJoinRoom       = "joinroom"
	EventLeaveRoom      = "leaveroom"
	EventSendMessage    = "sendMessage"
	EventTyping         = "typing"
	EventReceiveMessage = "receiveMessage"
	EventError          = "error"
)

// InboundEvent is one client frame. Event selects the operation;
// RoomID is required for all of them. Type and Content are only read
// for sendMessage.
type InboundEvent struct {
	Event   string `json:"event"`
	RoomID  uint   `json:"roomId"`
	Type    string `json:"type,omitempty"`
	Content string `json:"content,omitempty"`
}

type messageFrame struct {
	Event   string          `json:"event"`
	RoomID  uint            `json:"roomId"`
	Message *domain.Message `json:"message"`
}

type typingFrame struct {
	Event    string `json:"event"`
	RoomID   uint   `json:"roomId"`
	SenderID uint   `json:"senderId"`
}

type errorFrame struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

func encodeMessageFrame(msg *domain.Message) ([]byte, error) {
	return json.Marshal(messageFrame{Event: EventReceiveMessage, RoomID: msg.RoomID, Message: msg})
}

func encodeTypingFrame(roomID, senderID uint) ([]byte, error) {
	return json.Marshal(typingFrame{Event: EventTyping, RoomID: roomID, SenderID: senderID})
}

func encodeErrorFrame(message string) []byte {
	b, err := json.Marshal(errorFrame{Event: EventError, Message: message})
	if err != nil {
		return []byte(`{"event":"error","message":"internal error"}`)
	}
	return b
}
