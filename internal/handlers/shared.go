package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/progress-api/internal/dto"
	apierrors "github.com/yukikurage/progress-api/internal/errors"
	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/services"
)

type SharedHandler struct {
	sharedService *services.SharedService
}

func NewSharedHandler(sharedService *services.SharedService) *SharedHandler {
	return &SharedHandler{
		sharedService: sharedService,
	}
}

// ListSharedProjects returns shared projects of the user's communities.
// Can filter by ?community=
func (h *SharedHandler) ListSharedProjects(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	communityID, ok := optionalIDQuery(c, "community")
	if !ok {
		return
	}

	projects, err := h.sharedService.ListSharedProjects(userID, communityID)
	if err != nil {
		respondSharedError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSharedProjectDTOs(projects))
}

// GetSharedProject returns a shared project with its tasks and progress
func (h *SharedHandler) GetSharedProject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := requireID(c, "shared project")
	if !ok {
		return
	}

	project, err := h.sharedService.GetSharedProject(projectID, userID)
	if err != nil {
		respondSharedError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSharedProjectDTO(*project))
}

// CreateSharedProject publishes a project in a community
func (h *SharedHandler) CreateSharedProject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateSharedProjectRequest struct {
		CommunityID uint64               `json:"community_id" binding:"required,gt=0"`
		Name        string               `json:"name" binding:"required,max=255"`
		Description string               `json:"description"`
		Status      models.ProjectStatus `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED ARCHIVED"`
	}

	var req CreateSharedProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	project, err := h.sharedService.CreateSharedProject(services.CreateSharedProjectInput{
		CommunityID: req.CommunityID,
		ActorID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondSharedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSharedProjectDTO(*project))
}

// UpdateSharedProject updates only the provided fields of a shared project
func (h *SharedHandler) UpdateSharedProject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := requireID(c, "shared project")
	if !ok {
		return
	}

	type UpdateSharedProjectRequest struct {
		Name        *string               `json:"name" binding:"omitempty,max=255"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED ARCHIVED"`
	}

	var req UpdateSharedProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	project, err := h.sharedService.UpdateSharedProject(projectID, userID, services.UpdateSharedProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondSharedError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSharedProjectDTO(*project))
}

// DeleteSharedProject deletes a shared project with its tasks and notes
func (h *SharedHandler) DeleteSharedProject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := requireID(c, "shared project")
	if !ok {
		return
	}

	if err := h.sharedService.DeleteSharedProject(projectID, userID); err != nil {
		respondSharedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSharedTasks returns visible shared tasks. Can filter by ?shared_project=
func (h *SharedHandler) ListSharedTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := optionalIDQuery(c, "shared_project")
	if !ok {
		return
	}

	tasks, err := h.sharedService.ListSharedTasks(userID, projectID)
	if err != nil {
		respondSharedError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSharedTaskDTOs(tasks))
}

// CreateSharedTask adds a task to a shared project
func (h *SharedHandler) CreateSharedTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateSharedTaskRequest struct {
		SharedProjectID uint64 `json:"shared_project_id" binding:"required,gt=0"`
		Title           string `json:"title" binding:"required,max=255"`
		Completed       bool   `json:"completed"`
	}

	var req CreateSharedTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	task, err := h.sharedService.CreateSharedTask(services.CreateSharedTaskInput{
		SharedProjectID: req.SharedProjectID,
		ActorID:         userID,
		Title:           req.Title,
		Completed:       req.Completed,
	})
	if err != nil {
		respondSharedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSharedTaskDTO(*task))
}

// UpdateSharedTask updates only the provided fields of a shared task
func (h *SharedHandler) UpdateSharedTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := requireID(c, "shared task")
	if !ok {
		return
	}

	type UpdateSharedTaskRequest struct {
		Title     *string `json:"title" binding:"omitempty,max=255"`
		Completed *bool   `json:"completed"`
	}

	var req UpdateSharedTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	task, err := h.sharedService.UpdateSharedTask(taskID, userID, services.UpdateSharedTaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		respondSharedError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSharedTaskDTO(*task))
}

// DeleteSharedTask deletes a shared task
func (h *SharedHandler) DeleteSharedTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := requireID(c, "shared task")
	if !ok {
		return
	}

	if err := h.sharedService.DeleteSharedTask(taskID, userID); err != nil {
		respondSharedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSharedNotes returns visible shared notes. Can filter by ?shared_project=
func (h *SharedHandler) ListSharedNotes(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := optionalIDQuery(c, "shared_project")
	if !ok {
		return
	}

	notes, err := h.sharedService.ListSharedNotes(userID, projectID)
	if err != nil {
		respondSharedError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSharedNoteDTOs(notes))
}

// CreateSharedNote adds a note to a shared project
func (h *SharedHandler) CreateSharedNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateSharedNoteRequest struct {
		SharedProjectID uint64 `json:"shared_project_id" binding:"required,gt=0"`
		Title           string `json:"title" binding:"required,max=255"`
		Content         string `json:"content"`
	}

	var req CreateSharedNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	note, err := h.sharedService.CreateSharedNote(services.CreateSharedNoteInput{
		SharedProjectID: req.SharedProjectID,
		ActorID:         userID,
		Title:           req.Title,
		Content:         req.Content,
	})
	if err != nil {
		respondSharedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSharedNoteDTO(*note))
}

// DeleteSharedNote deletes a shared note
func (h *SharedHandler) DeleteSharedNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	noteID, ok := requireID(c, "shared note")
	if !ok {
		return
	}

	if err := h.sharedService.DeleteSharedNote(noteID, userID); err != nil {
		respondSharedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondSharedError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSharedProjectNotFound):
		apierrors.NotFound(c, "Shared project not found")
	case errors.Is(err, services.ErrSharedTaskNotFound):
		apierrors.NotFound(c, "Shared task not found")
	case errors.Is(err, services.ErrSharedNoteNotFound):
		apierrors.NotFound(c, "Shared note not found")
	case errors.Is(err, services.ErrCommunityNotFound):
		apierrors.NotFound(c, "Community not found")
	case errors.Is(err, services.ErrNotCommunityMember):
		apierrors.Forbidden(c, "You are not a member of this community")
	case errors.Is(err, services.ErrNotSharedAuthor):
		apierrors.Forbidden(c, "Only the author or the community owner can do this")
	case errors.Is(err, services.ErrNameRequired):
		apierrors.BadRequestWithDetails(c, "Invalid request body", map[string]string{
			"name": "This field may not be blank.",
		})
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequestWithDetails(c, "Invalid request body", map[string]string{
			"title": "This field may not be blank.",
		})
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequestWithDetails(c, "Invalid request body", map[string]string{
			"status": "Not a valid choice.",
		})
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
