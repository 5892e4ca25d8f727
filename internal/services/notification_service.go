package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/repository"
	"github.com/yukikurage/progress-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyProcessed     = errors.New("notification already processed")
	ErrNotAnInvitation      = errors.New("notification is not an invitation")
	ErrInvitationNeedsReply = errors.New("invitations must be accepted or rejected")
)

// NotificationService drives the notification lifecycle. A notification
// starts pending and moves once to accepted or rejected (invitations) or to
// read (alerts).
type NotificationService struct {
	repos *repository.Repositories
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repos *repository.Repositories) *NotificationService {
	return &NotificationService{repos: repos}
}

// ListNotifications returns a page of the recipient's notifications
func (s *NotificationService) ListNotifications(recipientID uint64, page utils.PaginationParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.repos.Notifications.List(recipientID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// UnreadCount returns the number of the recipient's pending notifications
func (s *NotificationService) UnreadCount(recipientID uint64) (int64, error) {
	count, err := s.repos.Notifications.CountPending(recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// Accept accepts a pending invitation and adds the recipient to the community
func (s *NotificationService) Accept(notificationID, recipientID uint64) error {
	return s.repos.Transaction(func(tx *repository.Repositories) error {
		notification, err := findNotification(tx, notificationID, recipientID)
		if err != nil {
			return err
		}
		if !notification.IsInvite() {
			return ErrNotAnInvitation
		}
		if err := transition(tx, notification, models.NotificationStatusAccepted); err != nil {
			return err
		}
		if notification.CommunityID == nil {
			return nil
		}

		if _, err := findCommunity(tx, *notification.CommunityID); err != nil {
			return err
		}
		member, err := isMember(tx, *notification.CommunityID, recipientID)
		if err != nil || member {
			return err
		}

		if err := tx.Communities.AddMember(&models.CommunityMember{
			CommunityID: *notification.CommunityID,
			UserID:      recipientID,
			Role:        models.RoleMember,
			JoinedAt:    time.Now(),
		}); err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		return nil
	})
}

// Reject rejects a pending invitation without touching membership
func (s *NotificationService) Reject(notificationID, recipientID uint64) error {
	return s.repos.Transaction(func(tx *repository.Repositories) error {
		notification, err := findNotification(tx, notificationID, recipientID)
		if err != nil {
			return err
		}
		if !notification.IsInvite() {
			return ErrNotAnInvitation
		}
		return transition(tx, notification, models.NotificationStatusRejected)
	})
}

// MarkRead marks a pending alert as read. Invitations cannot be marked read.
func (s *NotificationService) MarkRead(notificationID, recipientID uint64) error {
	notification, err := findNotification(s.repos, notificationID, recipientID)
	if err != nil {
		return err
	}
	if notification.IsInvite() {
		return ErrInvitationNeedsReply
	}
	return transition(s.repos, notification, models.NotificationStatusRead)
}

// MarkAllRead marks every pending alert of the recipient as read and returns
// how many changed
func (s *NotificationService) MarkAllRead(recipientID uint64) (int64, error) {
	count, err := s.repos.Notifications.MarkAllRead(recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return count, nil
}

func findNotification(repos *repository.Repositories, notificationID, recipientID uint64) (*models.Notification, error) {
	notification, err := repos.Notifications.FindForRecipient(notificationID, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	return notification, nil
}

// transition moves notification out of pending. A notification that already
// reached a terminal state, including one that got there concurrently, yields
// ErrAlreadyProcessed.
func transition(repos *repository.Repositories, notification *models.Notification, status models.NotificationStatus) error {
	if !notification.IsPending() {
		return ErrAlreadyProcessed
	}

	ok, err := repos.Notifications.Transition(notification.ID, status)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if !ok {
		return ErrAlreadyProcessed
	}

	notification.Status = status
	return nil
}

// fanOut notifies every member of a community except the actor
func fanOut(repos *repository.Repositories, communityID, actorID uint64, kind models.NotificationType, message string) error {
	members, err := repos.Communities.ListMembers(communityID)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	batch := make([]models.Notification, 0, len(members))
	for _, member := range members {
		if member.UserID == actorID {
			continue
		}
		id := communityID
		batch = append(batch, models.Notification{
			RecipientID: member.UserID,
			ActorID:     actorID,
			Type:        kind,
			Status:      models.NotificationStatusPending,
			Message:     message,
			CommunityID: &id,
		})
	}

	if err := repos.Notifications.CreateBatch(batch); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}
	return nil
}
