package repository

import (
	"github.com/yukikurage/progress-api/internal/database"
	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// CreateBatch inserts notifications in one statement
func (r *GormNotificationRepository) CreateBatch(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Omit(clause.Associations).Create(&notifications).Error
}

// FindForRecipient finds a notification addressed to recipientID
func (r *GormNotificationRepository) FindForRecipient(id, recipientID uint64) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Where("recipient_id = ?", recipientID).First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// List lists a recipient's notifications
func (r *GormNotificationRepository) List(recipientID uint64, page utils.PaginationParams) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	if err := query.
		Preload("Actor").
		Preload("Community").
		Order("created_at DESC").
		Order("id DESC").
		Scopes(database.Paginate(page)).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// CountPending counts unread notifications
func (r *GormNotificationRepository) CountPending(recipientID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, models.NotificationStatusPending).
		Count(&count).Error
	return count, err
}

// Transition moves a pending notification to status. The status guard in the
// WHERE clause keeps terminal states final under concurrent requests.
func (r *GormNotificationRepository) Transition(id uint64, status models.NotificationStatus) (bool, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.NotificationStatusPending).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkAllRead marks every pending alert of the recipient as read
func (r *GormNotificationRepository) MarkAllRead(recipientID uint64) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND status = ? AND type <> ?",
			recipientID, models.NotificationStatusPending, models.NotificationTypeInvite).
		Update("status", models.NotificationStatusRead)
	return result.RowsAffected, result.Error
}

// HasPendingInvite reports whether an open invite already exists
func (r *GormNotificationRepository) HasPendingInvite(communityID, recipientID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("community_id = ? AND recipient_id = ? AND type = ? AND status = ?",
			communityID, recipientID, models.NotificationTypeInvite, models.NotificationStatusPending).
		Count(&count).Error
	return count > 0, err
}
