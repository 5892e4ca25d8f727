package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommunityNotFound   = errors.New("community not found")
	ErrNotCommunityMember  = errors.New("not a member of this community")
	ErrNotCommunityOwner   = errors.New("only the community owner can manage members")
	ErrTargetUserNotFound  = errors.New("target user not found")
	ErrAlreadyMember       = errors.New("user is already a member")
	ErrInvitationSent      = errors.New("invitation already sent")
	ErrMemberNotFound      = errors.New("user is not a member")
	ErrCannotRemoveOwner   = errors.New("the owner cannot be removed")
	ErrCommunityNameNeeded = errors.New("community name is required")
)

// CommunityService handles communities and their membership
type CommunityService struct {
	repos *repository.Repositories
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(repos *repository.Repositories) *CommunityService {
	return &CommunityService{repos: repos}
}

// CreateCommunityInput represents input for creating a community
type CreateCommunityInput struct {
	OwnerID     uint64
	Name        string
	Description string
}

// CreateCommunity creates a community with the actor as its owner member
func (s *CommunityService) CreateCommunity(input CreateCommunityInput) (*models.Community, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCommunityNameNeeded
	}

	community := &models.Community{
		OwnerID:     input.OwnerID,
		Name:        name,
		Description: input.Description,
	}

	if err := s.repos.Communities.CreateWithOwner(community); err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	return s.GetCommunity(community.ID, input.OwnerID)
}

// ListCommunities returns every community the user belongs to
func (s *CommunityService) ListCommunities(userID uint64) ([]models.Community, error) {
	communities, err := s.repos.Communities.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	return communities, nil
}

// GetCommunity returns a community with its members. Only members may view it.
func (s *CommunityService) GetCommunity(communityID, userID uint64) (*models.Community, error) {
	community, err := findCommunity(s.repos, communityID)
	if err != nil {
		return nil, err
	}
	if err := ensureMember(s.repos, communityID, userID); err != nil {
		return nil, err
	}

	members, err := s.repos.Communities.ListMembers(communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	community.Members = members

	return community, nil
}

// InviteMember sends a community invite to username. Only the owner may invite.
func (s *CommunityService) InviteMember(communityID, actorID uint64, username string) (*models.Notification, error) {
	var invite *models.Notification
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		community, err := ensureCommunityOwner(tx, communityID, actorID)
		if err != nil {
			return err
		}

		target, err := tx.Users.FindByUsername(strings.TrimSpace(username))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTargetUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}

		member, err := isMember(tx, communityID, target.ID)
		if err != nil {
			return err
		}
		if member {
			return ErrAlreadyMember
		}

		pending, err := tx.Notifications.HasPendingInvite(communityID, target.ID)
		if err != nil {
			return fmt.Errorf("failed to check invitations: %w", err)
		}
		if pending {
			return ErrInvitationSent
		}

		actor, err := tx.Users.FindByID(actorID)
		if err != nil {
			return fmt.Errorf("failed to find actor: %w", err)
		}

		batch := []models.Notification{{
			RecipientID: target.ID,
			ActorID:     actorID,
			Type:        models.NotificationTypeInvite,
			Status:      models.NotificationStatusPending,
			Message:     fmt.Sprintf("%s invited you to join %s", actor.Username, community.Name),
			CommunityID: &community.ID,
		}}
		if err := tx.Notifications.CreateBatch(batch); err != nil {
			return fmt.Errorf("failed to create invitation: %w", err)
		}
		invite = &batch[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	return invite, nil
}

// RemoveMember removes username from the community. The owner cannot be removed.
func (s *CommunityService) RemoveMember(communityID, actorID uint64, username string) error {
	return s.repos.Transaction(func(tx *repository.Repositories) error {
		community, err := ensureCommunityOwner(tx, communityID, actorID)
		if err != nil {
			return err
		}

		target, err := tx.Users.FindByUsername(strings.TrimSpace(username))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTargetUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}
		if target.ID == community.OwnerID {
			return ErrCannotRemoveOwner
		}

		member, err := isMember(tx, communityID, target.ID)
		if err != nil {
			return err
		}
		if !member {
			return ErrMemberNotFound
		}

		if err := tx.Communities.RemoveMember(communityID, target.ID); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		return nil
	})
}

func findCommunity(repos *repository.Repositories, communityID uint64) (*models.Community, error) {
	community, err := repos.Communities.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}
	return community, nil
}

func isMember(repos *repository.Repositories, communityID, userID uint64) (bool, error) {
	_, err := repos.Communities.FindMember(communityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

func ensureMember(repos *repository.Repositories, communityID, userID uint64) error {
	member, err := isMember(repos, communityID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotCommunityMember
	}
	return nil
}

func ensureCommunityOwner(repos *repository.Repositories, communityID, userID uint64) (*models.Community, error) {
	community, err := findCommunity(repos, communityID)
	if err != nil {
		return nil, err
	}
	if community.OwnerID != userID {
		return nil, ErrNotCommunityOwner
	}
	return community, nil
}
