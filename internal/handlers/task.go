package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/progress-api/internal/dto"
	apierrors "github.com/yukikurage/progress-api/internal/errors"
	"github.com/yukikurage/progress-api/internal/services"
)

const suggestTimeout = 30 * time.Second

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks of the current user's projects in creation order.
// Can filter by ?project=
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := optionalIDQuery(c, "project")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(userID, projectID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task with its subtasks
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := requireID(c, "task")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task in one of the user's projects
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		ProjectID uint64 `json:"project_id" binding:"required,gt=0"`
		Title     string `json:"title" binding:"required,max=255"`
		Completed bool   `json:"completed"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Completed: req.Completed,
		ActorID:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates only the provided fields of a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := requireID(c, "task")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		ProjectID *uint64 `json:"project_id" binding:"omitempty,gt=0"`
		Title     *string `json:"title" binding:"omitempty,max=255"`
		Completed *bool   `json:"completed"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(taskID, userID, services.UpdateTaskInput{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task with its subtasks
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := requireID(c, "task")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SuggestSubtasks proposes subtasks for a task using AI. Nothing is stored;
// the client creates the subtasks it keeps.
func (h *TaskHandler) SuggestSubtasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := requireID(c, "task")
	if !ok {
		return
	}

	type SuggestRequest struct {
		Hint string `json:"hint" binding:"max=2000"`
	}

	var req SuggestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationFailed(c, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), suggestTimeout)
	defer cancel()

	suggestions, err := h.taskService.SuggestSubtasks(ctx, taskID, userID, req.Hint)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subtasks": suggestions,
	})
}

// ListSubtasks returns subtasks under the user's projects. Can filter by ?task=
func (h *TaskHandler) ListSubtasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	taskID, ok := optionalIDQuery(c, "task")
	if !ok {
		return
	}

	subtasks, err := h.taskService.ListSubtasks(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubtaskDTOs(subtasks))
}

// GetSubtask returns a specific subtask
func (h *TaskHandler) GetSubtask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	subtaskID, ok := requireID(c, "subtask")
	if !ok {
		return
	}

	subtask, err := h.taskService.GetSubtask(subtaskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubtaskDTO(*subtask))
}

// CreateSubtask creates a subtask; its task and project progress are recomputed
func (h *TaskHandler) CreateSubtask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateSubtaskRequest struct {
		TaskID    uint64 `json:"task_id" binding:"required,gt=0"`
		Title     string `json:"title" binding:"required,max=255"`
		Completed bool   `json:"completed"`
	}

	var req CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	subtask, err := h.taskService.CreateSubtask(services.CreateSubtaskInput{
		TaskID:    req.TaskID,
		Title:     req.Title,
		Completed: req.Completed,
		ActorID:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubtaskDTO(*subtask))
}

// UpdateSubtask updates only the provided fields of a subtask
func (h *TaskHandler) UpdateSubtask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	subtaskID, ok := requireID(c, "subtask")
	if !ok {
		return
	}

	type UpdateSubtaskRequest struct {
		TaskID    *uint64 `json:"task_id" binding:"omitempty,gt=0"`
		Title     *string `json:"title" binding:"omitempty,max=255"`
		Completed *bool   `json:"completed"`
	}

	var req UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	subtask, err := h.taskService.UpdateSubtask(subtaskID, userID, services.UpdateSubtaskInput{
		TaskID:    req.TaskID,
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubtaskDTO(*subtask))
}

// DeleteSubtask deletes a subtask
func (h *TaskHandler) DeleteSubtask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	subtaskID, ok := requireID(c, "subtask")
	if !ok {
		return
	}

	if err := h.taskService.DeleteSubtask(subtaskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrSubtaskNotFound):
		apierrors.NotFound(c, "Subtask not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrNotProjectOwner):
		apierrors.Forbidden(c, "You do not own this project")
	case errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Forbidden(c, "You do not own this task")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequestWithDetails(c, "Invalid request body", map[string]string{
			"title": "This field may not be blank.",
		})
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	case errors.Is(err, services.ErrAINoSubtasksSuggested):
		apierrors.InvalidOperation(c, "AI could not suggest any subtasks for this task")
	case errors.Is(err, context.DeadlineExceeded):
		apierrors.ServiceUnavailable(c, "AI service timed out")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
