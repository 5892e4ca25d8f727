package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/repository"
	"github.com/yukikurage/progress-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotProjectOwner = errors.New("project belongs to another user")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidStatus   = errors.New("invalid status")
)

// PublicStatuses are the statuses shown on the public community board.
var PublicStatuses = []models.ProjectStatus{
	models.ProjectStatusInProgress,
	models.ProjectStatusCompleted,
}

// ProjectService handles project business logic
type ProjectService struct {
	repos *repository.Repositories
}

// NewProjectService creates a new ProjectService
func NewProjectService(repos *repository.Repositories) *ProjectService {
	return &ProjectService{repos: repos}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	OwnerID     uint64
	Name        string
	Description string
	Status      models.ProjectStatus
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// ListProjects returns the user's projects with their task trees
func (s *ProjectService) ListProjects(userID uint64) ([]models.Project, error) {
	projects, err := s.repos.Projects.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns one of the user's projects
func (s *ProjectService) GetProject(projectID, userID uint64) (*models.Project, error) {
	project, err := s.repos.Projects.FindForUser(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CreateProject creates a project owned by the actor. Progress always starts at 0.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	if input.Status == "" {
		input.Status = models.ProjectStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	project := &models.Project{
		UserID:      input.OwnerID,
		Name:        name,
		Description: input.Description,
		Status:      input.Status,
	}

	if err := s.repos.Projects.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.GetProject(project.ID, input.OwnerID)
}

// UpdateProject updates the user-editable fields of a project
func (s *ProjectService) UpdateProject(projectID, userID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(projectID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		project.Status = *input.Status
	}

	if err := s.repos.Projects.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetProject(project.ID, userID)
}

// DeleteProject deletes a project with its tasks and subtasks
func (s *ProjectService) DeleteProject(projectID, userID uint64) error {
	if _, err := s.GetProject(projectID, userID); err != nil {
		return err
	}

	if err := s.repos.Projects.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// ListCommunityProjects returns the public board of active and finished projects
func (s *ProjectService) ListCommunityProjects(page utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.repos.Projects.ListPublic(PublicStatuses, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list community projects: %w", err)
	}
	return projects, total, nil
}

// ensureProjectOwner distinguishes a missing project from someone else's
func ensureProjectOwner(repos *repository.Repositories, projectID, userID uint64) (*models.Project, error) {
	project, err := repos.Projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project.UserID != userID {
		return nil, ErrNotProjectOwner
	}
	return project, nil
}
