package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/progress-api/internal/constants"
	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrSubtaskNotFound        = errors.New("subtask not found")
	ErrNotTaskOwner           = errors.New("task belongs to another user")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoSubtasksSuggested  = errors.New("AI did not suggest any subtasks")
)

// TaskService handles task and subtask business logic. Every write runs in a
// transaction together with the progress recompute it triggers.
type TaskService struct {
	repos     *repository.Repositories
	aiService *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(repos *repository.Repositories, aiService *AIService) *TaskService {
	return &TaskService{
		repos:     repos,
		aiService: aiService,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID uint64
	Title     string
	Completed bool
	ActorID   uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	ProjectID *uint64
	Title     *string
	Completed *bool
}

// CreateSubtaskInput represents input for creating a subtask
type CreateSubtaskInput struct {
	TaskID    uint64
	Title     string
	Completed bool
	ActorID   uint64
}

// UpdateSubtaskInput represents input for updating a subtask
type UpdateSubtaskInput struct {
	TaskID    *uint64
	Title     *string
	Completed *bool
}

// ListTasks returns tasks of the user's projects, optionally for one project
func (s *TaskService) ListTasks(userID uint64, projectID *uint64) ([]models.Task, error) {
	tasks, err := s.repos.Tasks.List(repository.TaskFilter{
		UserID:    userID,
		ProjectID: projectID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with its subtasks
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	return findTaskForUser(s.repos, taskID, userID)
}

// CreateTask creates a task in one of the actor's projects
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	var taskID uint64
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		if _, err := ensureProjectOwner(tx, input.ProjectID, input.ActorID); err != nil {
			return err
		}

		task := &models.Task{
			ProjectID: input.ProjectID,
			Title:     title,
			Completed: input.Completed,
		}
		if err := tx.Tasks.Create(task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		taskID = task.ID

		return NewPropagator(tx).AfterTaskChange(task.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTask(taskID, input.ActorID)
}

// UpdateTask updates a task and recomputes progress. Moving a task to another
// project recomputes both projects.
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		task, err := findTaskForUser(tx, taskID, userID)
		if err != nil {
			return err
		}
		previousProjectID := task.ProjectID

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return ErrTitleEmpty
			}
			task.Title = title
		}
		if input.Completed != nil {
			task.Completed = *input.Completed
		}
		if input.ProjectID != nil && *input.ProjectID != task.ProjectID {
			if _, err := ensureProjectOwner(tx, *input.ProjectID, userID); err != nil {
				return err
			}
			task.ProjectID = *input.ProjectID
		}

		if err := tx.Tasks.Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		propagator := NewPropagator(tx)
		if err := propagator.AfterTaskChange(task.ID); err != nil {
			return err
		}
		if previousProjectID != task.ProjectID {
			return propagator.RecomputeProject(previousProjectID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTask(taskID, userID)
}

// DeleteTask deletes a task with its subtasks and recomputes its former project
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	return s.repos.Transaction(func(tx *repository.Repositories) error {
		task, err := findTaskForUser(tx, taskID, userID)
		if err != nil {
			return err
		}

		if err := tx.Tasks.Delete(task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		return NewPropagator(tx).AfterTaskDelete(task.ProjectID)
	})
}

// ListSubtasks returns subtasks under the user's projects, optionally for one task
func (s *TaskService) ListSubtasks(userID uint64, taskID *uint64) ([]models.Subtask, error) {
	subtasks, err := s.repos.Subtasks.List(userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	return subtasks, nil
}

// GetSubtask returns one subtask under the user's projects
func (s *TaskService) GetSubtask(subtaskID, userID uint64) (*models.Subtask, error) {
	return findSubtaskForUser(s.repos, subtaskID, userID)
}

// CreateSubtask creates a subtask and recomputes its task and project
func (s *TaskService) CreateSubtask(input CreateSubtaskInput) (*models.Subtask, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	subtask := &models.Subtask{
		TaskID:    input.TaskID,
		Title:     title,
		Completed: input.Completed,
	}

	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := ensureTaskOwner(tx, input.TaskID, input.ActorID); err != nil {
			return err
		}

		if err := tx.Subtasks.Create(subtask); err != nil {
			return fmt.Errorf("failed to create subtask: %w", err)
		}

		return NewPropagator(tx).AfterSubtaskChange(subtask.TaskID)
	})
	if err != nil {
		return nil, err
	}

	return subtask, nil
}

// UpdateSubtask updates a subtask and recomputes the affected tasks and projects
func (s *TaskService) UpdateSubtask(subtaskID, userID uint64, input UpdateSubtaskInput) (*models.Subtask, error) {
	var subtask *models.Subtask
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		var err error
		subtask, err = findSubtaskForUser(tx, subtaskID, userID)
		if err != nil {
			return err
		}
		previousTaskID := subtask.TaskID

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return ErrTitleEmpty
			}
			subtask.Title = title
		}
		if input.Completed != nil {
			subtask.Completed = *input.Completed
		}
		if input.TaskID != nil && *input.TaskID != subtask.TaskID {
			if err := ensureTaskOwner(tx, *input.TaskID, userID); err != nil {
				return err
			}
			subtask.TaskID = *input.TaskID
		}

		if err := tx.Subtasks.Update(subtask); err != nil {
			return fmt.Errorf("failed to update subtask: %w", err)
		}

		propagator := NewPropagator(tx)
		if err := propagator.AfterSubtaskChange(subtask.TaskID); err != nil {
			return err
		}
		if previousTaskID != subtask.TaskID {
			return propagator.AfterSubtaskChange(previousTaskID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return subtask, nil
}

// DeleteSubtask deletes a subtask and recomputes its task and project
func (s *TaskService) DeleteSubtask(subtaskID, userID uint64) error {
	return s.repos.Transaction(func(tx *repository.Repositories) error {
		subtask, err := findSubtaskForUser(tx, subtaskID, userID)
		if err != nil {
			return err
		}

		if err := tx.Subtasks.Delete(subtask.ID); err != nil {
			return fmt.Errorf("failed to delete subtask: %w", err)
		}

		return NewPropagator(tx).AfterSubtaskChange(subtask.TaskID)
	})
}

// SuggestSubtasks asks the AI service to break a task down into subtasks.
// Suggestions are returned to the caller and not stored.
func (s *TaskService) SuggestSubtasks(ctx context.Context, taskID, userID uint64, hint string) ([]SuggestedSubtask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	task, err := s.GetTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.aiService.SuggestSubtasks(ctx, task.Title, hint)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest subtasks: %w", err)
	}

	valid := make([]SuggestedSubtask, 0, len(suggestions))
	existing := make(map[string]struct{}, len(task.Subtasks))
	for _, st := range task.Subtasks {
		existing[strings.ToLower(st.Title)] = struct{}{}
	}
	for _, suggestion := range suggestions {
		title := strings.TrimSpace(suggestion.Title)
		if title == "" {
			continue
		}
		if _, dup := existing[strings.ToLower(title)]; dup {
			continue
		}
		valid = append(valid, SuggestedSubtask{Title: title})
		if len(valid) == constants.MaxAISuggestedSubtasks {
			break
		}
	}

	if len(valid) == 0 {
		return nil, ErrAINoSubtasksSuggested
	}

	return valid, nil
}

func findTaskForUser(repos *repository.Repositories, taskID, userID uint64) (*models.Task, error) {
	task, err := repos.Tasks.FindForUser(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func findSubtaskForUser(repos *repository.Repositories, subtaskID, userID uint64) (*models.Subtask, error) {
	subtask, err := repos.Subtasks.FindForUser(subtaskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to find subtask: %w", err)
	}
	return subtask, nil
}

// ensureTaskOwner distinguishes a missing task from someone else's
func ensureTaskOwner(repos *repository.Repositories, taskID, userID uint64) error {
	task, err := repos.Tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := ensureProjectOwner(repos, task.ProjectID, userID); err != nil {
		if errors.Is(err, ErrNotProjectOwner) {
			return ErrNotTaskOwner
		}
		return err
	}
	return nil
}
