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
	ErrSharedProjectNotFound = errors.New("shared project not found")
	ErrSharedTaskNotFound    = errors.New("shared task not found")
	ErrSharedNoteNotFound    = errors.New("shared note not found")
	ErrNotSharedAuthor       = errors.New("only the author or the community owner can change this")
)

// SharedService handles projects, tasks and notes shared inside communities.
// Every operation is limited to communities the actor belongs to.
type SharedService struct {
	repos *repository.Repositories
}

// NewSharedService creates a new SharedService
func NewSharedService(repos *repository.Repositories) *SharedService {
	return &SharedService{repos: repos}
}

// CreateSharedProjectInput represents input for publishing a shared project
type CreateSharedProjectInput struct {
	CommunityID uint64
	ActorID     uint64
	Name        string
	Description string
	Status      models.ProjectStatus
}

// UpdateSharedProjectInput represents input for updating a shared project
type UpdateSharedProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// CreateSharedTaskInput represents input for adding a shared task
type CreateSharedTaskInput struct {
	SharedProjectID uint64
	ActorID         uint64
	Title           string
	Completed       bool
}

// UpdateSharedTaskInput represents input for updating a shared task
type UpdateSharedTaskInput struct {
	Title     *string
	Completed *bool
}

// CreateSharedNoteInput represents input for adding a shared note
type CreateSharedNoteInput struct {
	SharedProjectID uint64
	ActorID         uint64
	Title           string
	Content         string
}

// ListSharedProjects returns shared projects of the user's communities, or of
// one community when communityID is set
func (s *SharedService) ListSharedProjects(userID uint64, communityID *uint64) ([]models.SharedProject, error) {
	communityIDs, err := s.visibleCommunities(userID, communityID)
	if err != nil {
		return nil, err
	}

	projects, err := s.repos.Shared.ListProjects(communityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared projects: %w", err)
	}
	return projects, nil
}

// GetSharedProject returns a shared project with its tasks
func (s *SharedService) GetSharedProject(projectID, userID uint64) (*models.SharedProject, error) {
	return findSharedProjectForMember(s.repos, projectID, userID)
}

// CreateSharedProject publishes a project in a community and notifies the
// other members in the same transaction
func (s *SharedService) CreateSharedProject(input CreateSharedProjectInput) (*models.SharedProject, error) {
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

	project := &models.SharedProject{
		CommunityID: input.CommunityID,
		CreatedByID: input.ActorID,
		Name:        name,
		Description: input.Description,
		Status:      input.Status,
	}

	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		community, err := findCommunity(tx, input.CommunityID)
		if err != nil {
			return err
		}
		if err := ensureMember(tx, community.ID, input.ActorID); err != nil {
			return err
		}

		if err := tx.Shared.CreateProject(project); err != nil {
			return fmt.Errorf("failed to create shared project: %w", err)
		}

		return fanOut(tx, community.ID, input.ActorID, models.NotificationTypeNewProject,
			fmt.Sprintf("New project %q in %s", project.Name, community.Name))
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// UpdateSharedProject updates a shared project. Only its author or the
// community owner may change it.
func (s *SharedService) UpdateSharedProject(projectID, userID uint64, input UpdateSharedProjectInput) (*models.SharedProject, error) {
	project, err := findSharedProjectForMember(s.repos, projectID, userID)
	if err != nil {
		return nil, err
	}
	if err := ensureAuthorOrOwner(s.repos, project.CommunityID, project.CreatedByID, userID); err != nil {
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

	if err := s.repos.Shared.UpdateProject(project); err != nil {
		return nil, fmt.Errorf("failed to update shared project: %w", err)
	}

	return project, nil
}

// DeleteSharedProject removes a shared project with its tasks and notes
func (s *SharedService) DeleteSharedProject(projectID, userID uint64) error {
	project, err := findSharedProjectForMember(s.repos, projectID, userID)
	if err != nil {
		return err
	}
	if err := ensureAuthorOrOwner(s.repos, project.CommunityID, project.CreatedByID, userID); err != nil {
		return err
	}

	if err := s.repos.Shared.DeleteProject(project.ID); err != nil {
		return fmt.Errorf("failed to delete shared project: %w", err)
	}
	return nil
}

// ListSharedTasks returns shared tasks visible to the user, optionally for one shared project
func (s *SharedService) ListSharedTasks(userID uint64, sharedProjectID *uint64) ([]models.SharedTask, error) {
	projectIDs, err := s.visibleSharedProjects(userID, sharedProjectID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repos.Shared.ListTasks(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared tasks: %w", err)
	}
	return tasks, nil
}

// CreateSharedTask adds a task to a shared project. Any member may add tasks.
func (s *SharedService) CreateSharedTask(input CreateSharedTaskInput) (*models.SharedTask, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if _, err := findSharedProjectForMember(s.repos, input.SharedProjectID, input.ActorID); err != nil {
		return nil, err
	}

	task := &models.SharedTask{
		SharedProjectID: input.SharedProjectID,
		CreatedByID:     input.ActorID,
		Title:           title,
		Completed:       input.Completed,
	}
	if err := s.repos.Shared.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create shared task: %w", err)
	}

	return task, nil
}

// UpdateSharedTask updates a shared task. Any member may tick tasks.
func (s *SharedService) UpdateSharedTask(taskID, userID uint64, input UpdateSharedTaskInput) (*models.SharedTask, error) {
	task, err := s.findSharedTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := s.repos.Shared.UpdateTask(task); err != nil {
		return nil, fmt.Errorf("failed to update shared task: %w", err)
	}

	return task, nil
}

// DeleteSharedTask removes a shared task
func (s *SharedService) DeleteSharedTask(taskID, userID uint64) error {
	task, err := s.findSharedTask(taskID, userID)
	if err != nil {
		return err
	}

	if err := s.repos.Shared.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("failed to delete shared task: %w", err)
	}
	return nil
}

// ListSharedNotes returns shared notes visible to the user, optionally for one shared project
func (s *SharedService) ListSharedNotes(userID uint64, sharedProjectID *uint64) ([]models.SharedNote, error) {
	projectIDs, err := s.visibleSharedProjects(userID, sharedProjectID)
	if err != nil {
		return nil, err
	}

	notes, err := s.repos.Shared.ListNotes(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared notes: %w", err)
	}
	return notes, nil
}

// CreateSharedNote adds a note to a shared project and notifies the other
// members in the same transaction
func (s *SharedService) CreateSharedNote(input CreateSharedNoteInput) (*models.SharedNote, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	note := &models.SharedNote{
		SharedProjectID: input.SharedProjectID,
		CreatedByID:     input.ActorID,
		Title:           title,
		Content:         input.Content,
	}

	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		project, err := findSharedProjectForMember(tx, input.SharedProjectID, input.ActorID)
		if err != nil {
			return err
		}

		if err := tx.Shared.CreateNote(note); err != nil {
			return fmt.Errorf("failed to create shared note: %w", err)
		}

		return fanOut(tx, project.CommunityID, input.ActorID, models.NotificationTypeNewNote,
			fmt.Sprintf("New note %q in %s", note.Title, project.Name))
	})
	if err != nil {
		return nil, err
	}

	return note, nil
}

// DeleteSharedNote removes a shared note. Only its author or the community
// owner may delete it.
func (s *SharedService) DeleteSharedNote(noteID, userID uint64) error {
	note, err := s.repos.Shared.FindNote(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSharedNoteNotFound
		}
		return fmt.Errorf("failed to find shared note: %w", err)
	}

	project, err := findSharedProjectForMember(s.repos, note.SharedProjectID, userID)
	if err != nil {
		if errors.Is(err, ErrSharedProjectNotFound) {
			return ErrSharedNoteNotFound
		}
		return err
	}
	if err := ensureAuthorOrOwner(s.repos, project.CommunityID, note.CreatedByID, userID); err != nil {
		return err
	}

	if err := s.repos.Shared.DeleteNote(note.ID); err != nil {
		return fmt.Errorf("failed to delete shared note: %w", err)
	}
	return nil
}

func (s *SharedService) findSharedTask(taskID, userID uint64) (*models.SharedTask, error) {
	task, err := s.repos.Shared.FindTask(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSharedTaskNotFound
		}
		return nil, fmt.Errorf("failed to find shared task: %w", err)
	}

	if _, err := findSharedProjectForMember(s.repos, task.SharedProjectID, userID); err != nil {
		if errors.Is(err, ErrSharedProjectNotFound) {
			return nil, ErrSharedTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// visibleCommunities returns the community IDs the user may read. A requested
// community the user does not belong to is rejected.
func (s *SharedService) visibleCommunities(userID uint64, communityID *uint64) ([]uint64, error) {
	if communityID != nil {
		if _, err := findCommunity(s.repos, *communityID); err != nil {
			return nil, err
		}
		if err := ensureMember(s.repos, *communityID, userID); err != nil {
			return nil, err
		}
		return []uint64{*communityID}, nil
	}

	ids, err := s.repos.Communities.IDsForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	return ids, nil
}

func (s *SharedService) visibleSharedProjects(userID uint64, sharedProjectID *uint64) ([]uint64, error) {
	if sharedProjectID != nil {
		project, err := findSharedProjectForMember(s.repos, *sharedProjectID, userID)
		if err != nil {
			return nil, err
		}
		return []uint64{project.ID}, nil
	}

	communityIDs, err := s.visibleCommunities(userID, nil)
	if err != nil {
		return nil, err
	}

	ids, err := s.repos.Shared.ProjectIDsForCommunities(communityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared projects: %w", err)
	}
	return ids, nil
}

// findSharedProjectForMember hides shared projects of foreign communities as not found
func findSharedProjectForMember(repos *repository.Repositories, projectID, userID uint64) (*models.SharedProject, error) {
	project, err := repos.Shared.FindProject(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSharedProjectNotFound
		}
		return nil, fmt.Errorf("failed to find shared project: %w", err)
	}

	member, err := isMember(repos, project.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrSharedProjectNotFound
	}
	return project, nil
}

func ensureAuthorOrOwner(repos *repository.Repositories, communityID, authorID, userID uint64) error {
	if authorID == userID {
		return nil
	}
	community, err := findCommunity(repos, communityID)
	if err != nil {
		return err
	}
	if community.OwnerID != userID {
		return ErrNotSharedAuthor
	}
	return nil
}
