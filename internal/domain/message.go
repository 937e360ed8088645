package domain

import "time"

// Message type discriminants.
const (
	MessageTypeText   = "text"
	MessageTypeFile   = "file"
	MessageTypeSystem = "system"
)

// Content length bounds for text messages.
const (
	MinContentLength = 1
	MaxContentLength = 2000
)

// Message is one durable chat message. CreatedAt is assigned by the
// store and, together with the auto-increment ID, gives the per-room
// append order that history reads rely on.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"index:idx_room_created;not null" json:"roomId"`
	SenderID  uint      `gorm:"index;not null" json:"-"`
	Type      string    `gorm:"type:varchar(10);not null;default:text" json:"type"`
	Content   string    `gorm:"type:varchar(2000);not null" json:"content"`
	IsDeleted bool      `gorm:"default:false" json:"isDeleted"`
	IsPinned  bool      `gorm:"default:false" json:"isPinned"`
	IsEdited  bool      `gorm:"default:false" json:"isEdited"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_room_created" json:"timestamp"`

	// Sender is populated on reads that join the users table; it is
	// not written through this struct.
	Sender *UserRef `gorm:"-" json:"sender,omitempty"`
}

// ValidMessageType reports whether t is one of the known discriminants.
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeFile, MessageTypeSystem:
		return true
	}
	return false
}

// MessageSeen is one read receipt. The sweep that writes these never
// inserts a row for the message's own sender, preserving the invariant
// that seenBy excludes the sender.
type MessageSeen struct {
	MessageID uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	SeenAt    time.Time `gorm:"autoCreateTime"`
}
