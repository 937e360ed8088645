// Package domain defines the persistent data model of the chatroom
// application.
package domain

import "time"

// User is a registered account. Password always holds the bcrypt hash,
// never the plaintext. Online mirrors live presence and is reconciled
// periodically from the hub's Redis presence set.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null" json:"username"`
	Name      string    `gorm:"type:varchar(191);not null" json:"name"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_email;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	AvatarURL string    `gorm:"type:varchar(512)" json:"avatarUrl"`
	Online    bool      `gorm:"default:false" json:"online"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// UserRef is the trimmed sender/creator shape embedded in message and
// room payloads.
type UserRef struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Ref returns the embeddable reference for u.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Username: u.Username, AvatarURL: u.AvatarURL}
}
