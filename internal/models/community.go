package models

import "time"

type CommunityRole string

const (
	RoleOwner  CommunityRole = "owner"
	RoleMember CommunityRole = "member"
)

type Community struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner          User              `gorm:"foreignKey:OwnerID" json:"-"`
	Members        []CommunityMember `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	SharedProjects []SharedProject   `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"shared_projects,omitempty"`
}

type CommunityMember struct {
	CommunityID uint64        `gorm:"primarykey" json:"community_id"`
	UserID      uint64        `gorm:"primarykey" json:"user_id"`
	Role        CommunityRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt    time.Time     `json:"joined_at"`

	// Relations
	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
