package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/progress-api/internal/errors"
	"github.com/yukikurage/progress-api/internal/services"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// ListFocusSessions returns the current user's focus sessions, newest first
func (h *ActivityHandler) ListFocusSessions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	sessions, err := h.activityService.ListFocusSessions(userID)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// CreateFocusSession logs a block of focused work
func (h *ActivityHandler) CreateFocusSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateFocusSessionRequest struct {
		ProjectID       *uint64    `json:"project_id" binding:"omitempty,gt=0"`
		Tag             string     `json:"tag" binding:"max=50"`
		DurationMinutes int        `json:"duration_minutes" binding:"required,gt=0"`
		StartedAt       *time.Time `json:"started_at"`
		Note            string     `json:"note"`
	}

	var req CreateFocusSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	session, err := h.activityService.CreateFocusSession(services.CreateFocusSessionInput{
		UserID:          userID,
		ProjectID:       req.ProjectID,
		Tag:             req.Tag,
		DurationMinutes: req.DurationMinutes,
		StartedAt:       req.StartedAt,
		Note:            req.Note,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// FocusReport returns focus totals by tag, by project and by day
func (h *ActivityHandler) FocusReport(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	report, err := h.activityService.FocusReport(userID)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListNotes returns the current user's notes. Can filter by ?project=
func (h *ActivityHandler) ListNotes(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := optionalIDQuery(c, "project")
	if !ok {
		return
	}

	notes, err := h.activityService.ListNotes(userID, projectID)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, notes)
}

// GetNote returns one of the current user's notes
func (h *ActivityHandler) GetNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	noteID, ok := requireID(c, "note")
	if !ok {
		return
	}

	note, err := h.activityService.GetNote(noteID, userID)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// CreateNote creates a note
func (h *ActivityHandler) CreateNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateNoteRequest struct {
		ProjectID *uint64 `json:"project_id" binding:"omitempty,gt=0"`
		Title     string  `json:"title" binding:"required,max=255"`
		Content   string  `json:"content"`
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	note, err := h.activityService.CreateNote(services.CreateNoteInput{
		UserID:    userID,
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// UpdateNote updates only the provided fields of a note. "project_id": 0 detaches it
func (h *ActivityHandler) UpdateNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	noteID, ok := requireID(c, "note")
	if !ok {
		return
	}

	type UpdateNoteRequest struct {
		ProjectID *uint64 `json:"project_id"`
		Title     *string `json:"title" binding:"omitempty,max=255"`
		Content   *string `json:"content"`
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	note, err := h.activityService.UpdateNote(noteID, userID, services.UpdateNoteInput{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNote deletes a note
func (h *ActivityHandler) DeleteNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	noteID, ok := requireID(c, "note")
	if !ok {
		return
	}

	if err := h.activityService.DeleteNote(noteID, userID); err != nil {
		respondActivityError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoteNotFound):
		apierrors.NotFound(c, "Note not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrNotProjectOwner):
		apierrors.Forbidden(c, "You do not own this project")
	case errors.Is(err, services.ErrInvalidDuration):
		apierrors.BadRequestWithDetails(c, "Invalid request body", map[string]string{
			"duration_minutes": "Must be greater than 0.",
		})
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequestWithDetails(c, "Invalid request body", map[string]string{
			"title": "This field may not be blank.",
		})
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
