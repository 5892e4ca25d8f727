package models

import "time"

// FocusSession is one block of focused work logged by a user.
type FocusSession struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	UserID          uint64    `gorm:"not null" json:"user_id"`
	ProjectID       *uint64   `json:"project_id"`
	Tag             string    `gorm:"type:varchar(50)" json:"tag"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	StartedAt       time.Time `gorm:"not null" json:"started_at"`
	Note            string    `gorm:"type:text" json:"note"`
	CreatedAt       time.Time `json:"created_at"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"-"`
}

type Note struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	ProjectID *uint64   `json:"project_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"-"`
}
