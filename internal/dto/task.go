package dto

import (
	"time"

	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ProfileDTO represents a user's profile in API responses
type ProfileDTO struct {
	DisplayName string `json:"display_name"`
	AvatarIndex int    `json:"avatar_index"`
}

// MeDTO represents the authenticated user's own account
type MeDTO struct {
	ID        uint64      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	CreatedAt time.Time   `json:"created_at"`
	Profile   *ProfileDTO `json:"profile,omitempty"`
}

// TokenDTO is returned by login
type TokenDTO struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// SubtaskDTO represents a subtask in API responses
type SubtaskDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        uint64       `json:"id"`
	ProjectID uint64       `json:"project_id"`
	Title     string       `json:"title"`
	Completed bool         `json:"completed"`
	Progress  float64      `json:"progress"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Subtasks  []SubtaskDTO `json:"subtasks"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	UserID      uint64               `json:"user"`
	UserName    string               `json:"user_name,omitempty"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Progress    float64              `json:"progress"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Tasks       []TaskDTO            `json:"tasks"`
}

// CommunityProjectDTO represents a project on the public board
type CommunityProjectDTO struct {
	ID       uint64               `json:"id"`
	Name     string               `json:"name"`
	Status   models.ProjectStatus `json:"status"`
	Progress float64              `json:"progress"`
	UserName string               `json:"user_name"`
}

// CommunityProjectListResponse represents a page of the public board
type CommunityProjectListResponse struct {
	Projects   []CommunityProjectDTO    `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToProfileDTO converts a Profile model to ProfileDTO
func ToProfileDTO(profile models.Profile) ProfileDTO {
	return ProfileDTO{
		DisplayName: profile.DisplayName,
		AvatarIndex: profile.AvatarIndex,
	}
}

// ToMeDTO converts a User model with its profile to MeDTO
func ToMeDTO(user models.User) MeDTO {
	dto := MeDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	// Include profile if preloaded
	if user.Profile != nil {
		profile := ToProfileDTO(*user.Profile)
		dto.Profile = &profile
	}

	return dto
}

// ToSubtaskDTO converts a Subtask model to SubtaskDTO
func ToSubtaskDTO(subtask models.Subtask) SubtaskDTO {
	return SubtaskDTO{
		ID:        subtask.ID,
		TaskID:    subtask.TaskID,
		Title:     subtask.Title,
		Completed: subtask.Completed,
		CreatedAt: subtask.CreatedAt,
		UpdatedAt: subtask.UpdatedAt,
	}
}

// ToSubtaskDTOs converts a slice of subtasks
func ToSubtaskDTOs(subtasks []models.Subtask) []SubtaskDTO {
	items := make([]SubtaskDTO, len(subtasks))
	for i, subtask := range subtasks {
		items[i] = ToSubtaskDTO(subtask)
	}
	return items
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:        task.ID,
		ProjectID: task.ProjectID,
		Title:     task.Title,
		Completed: task.Completed,
		Progress:  task.Progress,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
		Subtasks:  ToSubtaskDTOs(task.Subtasks),
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		UserID:      project.UserID,
		UserName:    project.User.Username,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		Progress:    project.Progress,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Tasks:       ToTaskDTOs(project.Tasks),
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}
	return items
}

// ToCommunityProjectListResponse converts a page of public projects
func ToCommunityProjectListResponse(projects []models.Project, params utils.PaginationParams, total int64) CommunityProjectListResponse {
	items := make([]CommunityProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = CommunityProjectDTO{
			ID:       project.ID,
			Name:     project.Name,
			Status:   project.Status,
			Progress: project.Progress,
			UserName: project.User.Username,
		}
	}

	return CommunityProjectListResponse{
		Projects: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
