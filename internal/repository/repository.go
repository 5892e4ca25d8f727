package repository

import (
	"time"

	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/utils"
	"gorm.io/gorm"
)

// Repositories bundles every repository over one database handle so a service
// can run several of them inside a single transaction.
type Repositories struct {
	db *gorm.DB

	Users         UserRepository
	Projects      ProjectRepository
	Tasks         TaskRepository
	Subtasks      SubtaskRepository
	FocusSessions FocusSessionRepository
	Notes         NoteRepository
	Communities   CommunityRepository
	Shared        SharedRepository
	Notifications NotificationRepository
}

// New creates the repository bundle backed by db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		Users:         NewUserRepository(db),
		Projects:      NewProjectRepository(db),
		Tasks:         NewTaskRepository(db),
		Subtasks:      NewSubtaskRepository(db),
		FocusSessions: NewFocusSessionRepository(db),
		Notes:         NewNoteRepository(db),
		Communities:   NewCommunityRepository(db),
		Shared:        NewSharedRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// Transaction runs fn with a bundle bound to a new transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (r *Repositories) Transaction(fn func(tx *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithProfile creates a user and their empty profile within a single transaction.
	CreateWithProfile(user *models.User, profile *models.Profile) error

	// FindByID finds a user by ID with the profile loaded
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update updates a user's own columns
	Update(user *models.User) error

	// FindProfile finds the profile of a user
	FindProfile(userID uint64) (*models.Profile, error)

	// SaveProfile creates or updates a profile
	SaveProfile(profile *models.Profile) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(project *models.Project) error

	// FindByID finds a project regardless of owner
	FindByID(id uint64) (*models.Project, error)

	// FindForUser finds a project owned by userID, with tasks and subtasks
	FindForUser(id, userID uint64) (*models.Project, error)

	// ListByUser lists a user's projects, most recently updated first
	ListByUser(userID uint64) ([]models.Project, error)

	// ListPublic lists projects in the given statuses ordered by progress descending
	ListPublic(statuses []models.ProjectStatus, page utils.PaginationParams) ([]models.Project, int64, error)

	Update(project *models.Project) error

	// UpdateDerived writes the derived progress and status columns only
	UpdateDerived(id uint64, progress float64, status models.ProjectStatus) error

	// Delete removes a project with its tasks and subtasks
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(task *models.Task) error

	// FindByID finds a task regardless of owner
	FindByID(id uint64) (*models.Task, error)

	// FindForUser finds a task that belongs to one of userID's projects
	FindForUser(id, userID uint64) (*models.Task, error)

	// List lists tasks of userID's projects in creation order
	List(filter TaskFilter) ([]models.Task, error)

	// ListByProject lists every task of a project
	ListByProject(projectID uint64) ([]models.Task, error)

	Update(task *models.Task) error

	// UpdateDerived writes the derived progress and completed columns only
	UpdateDerived(id uint64, progress float64, completed bool) error

	// Delete removes a task and its subtasks
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID    uint64
	ProjectID *uint64
}

// SubtaskRepository defines the interface for subtask data access
type SubtaskRepository interface {
	Create(subtask *models.Subtask) error

	// FindForUser finds a subtask under one of userID's projects
	FindForUser(id, userID uint64) (*models.Subtask, error)

	// List lists subtasks under userID's projects, optionally for one task
	List(userID uint64, taskID *uint64) ([]models.Subtask, error)

	// ListByTask lists every subtask of a task
	ListByTask(taskID uint64) ([]models.Subtask, error)

	Update(subtask *models.Subtask) error

	Delete(id uint64) error
}

// FocusSessionRepository defines the interface for focus session data access
type FocusSessionRepository interface {
	Create(session *models.FocusSession) error

	// ListByUser lists a user's sessions, newest first
	ListByUser(userID uint64) ([]models.FocusSession, error)

	// ListBetween lists a user's sessions started within [from, to], with projects loaded
	ListBetween(userID uint64, from, to time.Time) ([]models.FocusSession, error)
}

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	Create(note *models.Note) error
	FindForUser(id, userID uint64) (*models.Note, error)
	ListByUser(userID uint64, projectID *uint64) ([]models.Note, error)
	Update(note *models.Note) error
	Delete(id uint64) error
}

// CommunityRepository defines the interface for community data access
type CommunityRepository interface {
	// CreateWithOwner creates a community and its owner membership
	CreateWithOwner(community *models.Community) error

	FindByID(id uint64) (*models.Community, error)

	// ListForUser lists every community userID is a member of
	ListForUser(userID uint64) ([]models.Community, error)

	// IDsForUser returns the IDs of every community userID is a member of
	IDsForUser(userID uint64) ([]uint64, error)

	AddMember(member *models.CommunityMember) error
	RemoveMember(communityID, userID uint64) error
	FindMember(communityID, userID uint64) (*models.CommunityMember, error)

	// ListMembers lists all members of a community with users loaded
	ListMembers(communityID uint64) ([]models.CommunityMember, error)
}

// SharedRepository defines the interface for shared community content
type SharedRepository interface {
	CreateProject(project *models.SharedProject) error

	// FindProject finds a shared project with its tasks loaded
	FindProject(id uint64) (*models.SharedProject, error)

	// ListProjects lists shared projects of the given communities, with tasks loaded
	ListProjects(communityIDs []uint64) ([]models.SharedProject, error)

	UpdateProject(project *models.SharedProject) error

	// DeleteProject removes a shared project with its tasks and notes
	DeleteProject(id uint64) error

	CreateTask(task *models.SharedTask) error
	FindTask(id uint64) (*models.SharedTask, error)
	ListTasks(sharedProjectIDs []uint64) ([]models.SharedTask, error)
	UpdateTask(task *models.SharedTask) error
	DeleteTask(id uint64) error

	CreateNote(note *models.SharedNote) error
	FindNote(id uint64) (*models.SharedNote, error)
	ListNotes(sharedProjectIDs []uint64) ([]models.SharedNote, error)
	DeleteNote(id uint64) error

	// ProjectIDsForCommunities returns the IDs of every shared project in the given communities
	ProjectIDsForCommunities(communityIDs []uint64) ([]uint64, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// CreateBatch inserts several notifications at once
	CreateBatch(notifications []models.Notification) error

	FindForRecipient(id, recipientID uint64) (*models.Notification, error)

	// List lists a recipient's notifications, newest first
	List(recipientID uint64, page utils.PaginationParams) ([]models.Notification, int64, error)

	// CountPending counts a recipient's pending notifications
	CountPending(recipientID uint64) (int64, error)

	// Transition moves a notification from pending to status. It reports false
	// when the notification was no longer pending.
	Transition(id uint64, status models.NotificationStatus) (bool, error)

	// MarkAllRead moves every pending non-invite notification of recipientID to read
	MarkAllRead(recipientID uint64) (int64, error)

	// HasPendingInvite reports whether recipientID has a pending invite to communityID
	HasPendingInvite(communityID, recipientID uint64) (bool, error)
}
