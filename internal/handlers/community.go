package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/progress-api/internal/dto"
	apierrors "github.com/yukikurage/progress-api/internal/errors"
	"github.com/yukikurage/progress-api/internal/services"
)

type CommunityHandler struct {
	communityService *services.CommunityService
}

func NewCommunityHandler(communityService *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
	}
}

type memberRequest struct {
	Username string `json:"username" binding:"required"`
}

// ListCommunities returns the communities the current user belongs to
func (h *CommunityHandler) ListCommunities(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	communities, err := h.communityService.ListCommunities(userID)
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommunityDTOs(communities))
}

// CreateCommunity creates a community owned by the current user
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateCommunityRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	community, err := h.communityService.CreateCommunity(services.CreateCommunityInput{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommunityDTO(*community))
}

// GetCommunity returns a community with its members
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	communityID, ok := requireID(c, "community")
	if !ok {
		return
	}

	community, err := h.communityService.GetCommunity(communityID, userID)
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommunityDTO(*community))
}

// AddMember sends an invitation to the named user
func (h *CommunityHandler) AddMember(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	communityID, ok := requireID(c, "community")
	if !ok {
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	if _, err := h.communityService.InviteMember(communityID, userID, req.Username); err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Invitation sent.",
	})
}

// RemoveMember removes the named user from the community
func (h *CommunityHandler) RemoveMember(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	communityID, ok := requireID(c, "community")
	if !ok {
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	if err := h.communityService.RemoveMember(communityID, userID, req.Username); err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Member removed.",
	})
}

func respondCommunityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommunityNotFound):
		apierrors.NotFound(c, "Community not found")
	case errors.Is(err, services.ErrNotCommunityMember):
		apierrors.Forbidden(c, "You are not a member of this community")
	case errors.Is(err, services.ErrNotCommunityOwner):
		apierrors.Forbidden(c, "Only the community owner can perform this action")
	case errors.Is(err, services.ErrTargetUserNotFound):
		apierrors.NotFound(c, "User not found.")
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, "User is not a member.")
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.InvalidOperation(c, "User is already a member.")
	case errors.Is(err, services.ErrInvitationSent):
		apierrors.InvalidOperation(c, "Invitation already sent.")
	case errors.Is(err, services.ErrCannotRemoveOwner):
		apierrors.InvalidOperation(c, "The owner cannot be removed.")
	case errors.Is(err, services.ErrCommunityNameNeeded):
		apierrors.BadRequestWithDetails(c, "Invalid request body", map[string]string{
			"name": "This field may not be blank.",
		})
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
