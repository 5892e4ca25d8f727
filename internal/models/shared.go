package models

import "time"

// SharedProject is a project published inside a community. Its progress is
// never stored; it is derived from SharedTasks on read.
type SharedProject struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	CommunityID uint64        `gorm:"not null;index" json:"community_id"`
	CreatedByID uint64        `gorm:"not null" json:"created_by_id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	CreatedBy User         `gorm:"foreignKey:CreatedByID" json:"-"`
	Tasks     []SharedTask `gorm:"foreignKey:SharedProjectID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Notes     []SharedNote `gorm:"foreignKey:SharedProjectID;constraint:OnDelete:CASCADE" json:"notes,omitempty"`
}

type SharedTask struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	SharedProjectID uint64    `gorm:"not null;index" json:"shared_project_id"`
	CreatedByID     uint64    `gorm:"not null" json:"created_by_id"`
	Title           string    `gorm:"type:varchar(255);not null" json:"title"`
	Completed       bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type SharedNote struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	SharedProjectID uint64    `gorm:"not null;index" json:"shared_project_id"`
	CreatedByID     uint64    `gorm:"not null" json:"created_by_id"`
	Title           string    `gorm:"type:varchar(255);not null" json:"title"`
	Content         string    `gorm:"type:text" json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
