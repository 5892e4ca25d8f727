package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/progress-api/internal/errors"
	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/repository"
	"gorm.io/gorm"
)

const (
	ContextKeyCommunity       = "community"
	ContextKeyCommunityMember = "community_member"
)

// RequireCommunityAccess checks that the community in the :id parameter exists
// and that the current user is one of its members
func RequireCommunityAccess(communities repository.CommunityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid community ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		community, err := communities.FindByID(communityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Community not found")
			} else {
				apierrors.InternalError(c, "Failed to load community")
			}
			c.Abort()
			return
		}

		member, err := communities.FindMember(communityID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Forbidden(c, "You are not a member of this community")
			} else {
				apierrors.InternalError(c, "Failed to check membership")
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyCommunity, *community)
		c.Set(ContextKeyCommunityMember, *member)
		c.Next()
	}
}

// RequireCommunityOwner checks that the current user owns the community.
// It must run after RequireCommunityAccess.
func RequireCommunityOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberInterface, exists := c.Get(ContextKeyCommunityMember)
		if !exists {
			apierrors.Forbidden(c, "Community access required")
			c.Abort()
			return
		}

		member, ok := memberInterface.(models.CommunityMember)
		if !ok {
			apierrors.InternalError(c, "Invalid community member data")
			c.Abort()
			return
		}

		if member.Role != models.RoleOwner {
			apierrors.Forbidden(c, "Only the community owner can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
