package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Profile     *Profile          `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Projects    []Project         `gorm:"foreignKey:UserID" json:"-"`
	Communities []CommunityMember `gorm:"foreignKey:UserID" json:"-"`
}

// Profile holds per-user display preferences.
type Profile struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	UserID      uint64 `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName string `gorm:"type:varchar(100)" json:"display_name"`
	AvatarIndex int    `gorm:"not null;default:0" json:"avatar_index"`
}
