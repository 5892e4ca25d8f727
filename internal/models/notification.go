package models

import "time"

type NotificationType string

const (
	NotificationTypeInvite     NotificationType = "community_invite"
	NotificationTypeNewProject NotificationType = "new_project"
	NotificationTypeNewNote    NotificationType = "new_note"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "pending"
	NotificationStatusAccepted NotificationStatus = "accepted"
	NotificationStatusRejected NotificationStatus = "rejected"
	NotificationStatusRead     NotificationStatus = "read"
)

// Notification is a directed, typed message from an actor to a recipient.
// Status moves from pending to exactly one terminal state and never back.
type Notification struct {
	ID          uint64             `gorm:"primarykey" json:"id"`
	RecipientID uint64             `gorm:"not null" json:"recipient_id"`
	ActorID     uint64             `gorm:"not null" json:"actor_id"`
	Type        NotificationType   `gorm:"type:varchar(30);not null" json:"type"`
	Status      NotificationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Message     string             `gorm:"type:text" json:"message"`
	CommunityID *uint64            `json:"community_id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// Relations
	Actor     User       `gorm:"foreignKey:ActorID" json:"-"`
	Community *Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsInvite reports whether the notification is a community invitation.
func (n *Notification) IsInvite() bool {
	return n.Type == NotificationTypeInvite
}

// IsPending reports whether the notification is still awaiting action.
func (n *Notification) IsPending() bool {
	return n.Status == NotificationStatusPending
}
