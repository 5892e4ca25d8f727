package repository

import (
	"time"

	"github.com/yukikurage/progress-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommunityRepository is a GORM implementation of CommunityRepository
type GormCommunityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &GormCommunityRepository{db: db}
}

// CreateWithOwner creates a community and records the owner as a member
func (r *GormCommunityRepository) CreateWithOwner(community *models.Community) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(community).Error; err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Create(&models.CommunityMember{
			CommunityID: community.ID,
			UserID:      community.OwnerID,
			Role:        models.RoleOwner,
			JoinedAt:    time.Now(),
		}).Error
	})
}

// FindByID finds a community by ID
func (r *GormCommunityRepository) FindByID(id uint64) (*models.Community, error) {
	var community models.Community
	if err := r.db.First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// ListForUser lists the communities a user belongs to
func (r *GormCommunityRepository) ListForUser(userID uint64) ([]models.Community, error) {
	memberOf := r.db.Model(&models.CommunityMember{}).Select("community_id").Where("user_id = ?", userID)

	var communities []models.Community
	if err := r.db.
		Preload("Members.User").
		Where("id IN (?)", memberOf).
		Order("created_at DESC").
		Order("id DESC").
		Find(&communities).Error; err != nil {
		return nil, err
	}
	return communities, nil
}

// IDsForUser returns the IDs of the communities a user belongs to
func (r *GormCommunityRepository) IDsForUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.CommunityMember{}).
		Where("user_id = ?", userID).
		Pluck("community_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// AddMember adds a member to a community
func (r *GormCommunityRepository) AddMember(member *models.CommunityMember) error {
	return r.db.Omit(clause.Associations).Create(member).Error
}

// RemoveMember removes a member from a community
func (r *GormCommunityRepository) RemoveMember(communityID, userID uint64) error {
	return r.db.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.CommunityMember{}).Error
}

// FindMember finds a specific community member
func (r *GormCommunityRepository) FindMember(communityID, userID uint64) (*models.CommunityMember, error) {
	var member models.CommunityMember
	if err := r.db.Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a community
func (r *GormCommunityRepository) ListMembers(communityID uint64) ([]models.CommunityMember, error) {
	var members []models.CommunityMember
	if err := r.db.Preload("User").
		Where("community_id = ?", communityID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
