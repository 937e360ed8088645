package domain

import "time"

// Room capacity bounds. MaxMembers defaults to DefaultMaxMembers when a
// creation request leaves it unset.
const (
	DefaultMaxMembers = 50
	MaxMembersLimit   = 1025
)

// Room is a named chat group. Password holds a bcrypt hash and is set
// iff IsPrivate. The LastMessage* columns are a denormalized, advisory
// cache of the newest message; the messages table stays the source of
// truth.
type Room struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);index;not null" json:"name"`
	Description string `gorm:"type:varchar(500);not null" json:"description"`
	IsPrivate   bool   `gorm:"default:false" json:"isPrivate"`
	Password    string `gorm:"type:text" json:"-"`
	CreatedBy   uint   `gorm:"index;not null" json:"createdBy"`
	MaxMembers  int    `gorm:"not null;default:50" json:"maxMembers"`

	LastMessageContent  string     `gorm:"type:varchar(2000)" json:"-"`
	LastMessageSenderID uint       `json:"-"`
	LastMessageAt       *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// RoomMember is one membership row. The composite primary key makes a
// repeated join surface as a duplicate-entry error instead of a second
// row.
type RoomMember struct {
	RoomID   uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID   uint      `gorm:"primaryKey;autoIncrement:false"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

// LastMessageSummary is the denormalized last-message shape returned in
// room listings.
type LastMessageSummary struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Sender    UserRef   `json:"sender"`
}

// RoomSummary is a room plus the per-viewer fields computed for the
// "joined rooms" listing.
type RoomSummary struct {
	Room        Room                `json:"room"`
	MemberCount int64               `json:"memberCount"`
	LastMessage *LastMessageSummary `json:"lastMessage,omitempty"`
	UnreadCount int64               `json:"unreadCount"`
}
