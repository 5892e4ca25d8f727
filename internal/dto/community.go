package dto

import (
	"time"

	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/progress"
	"github.com/yukikurage/progress-api/internal/utils"
)

// CommunityMemberDTO represents a member in a community
type CommunityMemberDTO struct {
	User     UserDTO              `json:"user"`
	Role     models.CommunityRole `json:"role"`
	JoinedAt time.Time            `json:"joined_at"`
}

// CommunityDTO represents a community in API responses
type CommunityDTO struct {
	ID          uint64               `json:"id"`
	OwnerID     uint64               `json:"owner_id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	CreatedAt   time.Time            `json:"created_at"`
	Members     []CommunityMemberDTO `json:"members"`
}

// SharedTaskDTO represents a shared task in API responses
type SharedTaskDTO struct {
	ID              uint64    `json:"id"`
	SharedProjectID uint64    `json:"shared_project_id"`
	CreatedByID     uint64    `json:"created_by_id"`
	Title           string    `json:"title"`
	Completed       bool      `json:"completed"`
	CreatedAt       time.Time `json:"created_at"`
}

// SharedNoteDTO represents a shared note in API responses
type SharedNoteDTO struct {
	ID              uint64    `json:"id"`
	SharedProjectID uint64    `json:"shared_project_id"`
	CreatedByID     uint64    `json:"created_by_id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
}

// SharedProjectDTO represents a shared project. Progress is derived from its
// tasks at serialization time.
type SharedProjectDTO struct {
	ID          uint64               `json:"id"`
	CommunityID uint64               `json:"community_id"`
	CreatedByID uint64               `json:"created_by_id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Progress    float64              `json:"progress"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Tasks       []SharedTaskDTO      `json:"tasks"`
}

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID          uint64                    `json:"id"`
	Type        models.NotificationType   `json:"type"`
	Status      models.NotificationStatus `json:"status"`
	Message     string                    `json:"message"`
	Actor       *UserDTO                  `json:"actor,omitempty"`
	CommunityID *uint64                   `json:"community_id"`
	Community   string                    `json:"community_name,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// NotificationListResponse represents a page of notifications
type NotificationListResponse struct {
	Notifications []NotificationDTO        `json:"notifications"`
	Pagination    utils.PaginationResponse `json:"pagination"`
}

// ToCommunityMemberDTO converts a member to DTO
func ToCommunityMemberDTO(member models.CommunityMember) CommunityMemberDTO {
	return CommunityMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToCommunityDTO converts a community with its preloaded members to DTO
func ToCommunityDTO(community models.Community) CommunityDTO {
	members := make([]CommunityMemberDTO, len(community.Members))
	for i, member := range community.Members {
		members[i] = ToCommunityMemberDTO(member)
	}

	return CommunityDTO{
		ID:          community.ID,
		OwnerID:     community.OwnerID,
		Name:        community.Name,
		Description: community.Description,
		CreatedAt:   community.CreatedAt,
		Members:     members,
	}
}

// ToCommunityDTOs converts a slice of communities
func ToCommunityDTOs(communities []models.Community) []CommunityDTO {
	items := make([]CommunityDTO, len(communities))
	for i, community := range communities {
		items[i] = ToCommunityDTO(community)
	}
	return items
}

// ToSharedTaskDTO converts a SharedTask model to DTO
func ToSharedTaskDTO(task models.SharedTask) SharedTaskDTO {
	return SharedTaskDTO{
		ID:              task.ID,
		SharedProjectID: task.SharedProjectID,
		CreatedByID:     task.CreatedByID,
		Title:           task.Title,
		Completed:       task.Completed,
		CreatedAt:       task.CreatedAt,
	}
}

// ToSharedTaskDTOs converts a slice of shared tasks
func ToSharedTaskDTOs(tasks []models.SharedTask) []SharedTaskDTO {
	items := make([]SharedTaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToSharedTaskDTO(task)
	}
	return items
}

// ToSharedNoteDTO converts a SharedNote model to DTO
func ToSharedNoteDTO(note models.SharedNote) SharedNoteDTO {
	return SharedNoteDTO{
		ID:              note.ID,
		SharedProjectID: note.SharedProjectID,
		CreatedByID:     note.CreatedByID,
		Title:           note.Title,
		Content:         note.Content,
		CreatedAt:       note.CreatedAt,
	}
}

// ToSharedNoteDTOs converts a slice of shared notes
func ToSharedNoteDTOs(notes []models.SharedNote) []SharedNoteDTO {
	items := make([]SharedNoteDTO, len(notes))
	for i, note := range notes {
		items[i] = ToSharedNoteDTO(note)
	}
	return items
}

// ToSharedProjectDTO converts a SharedProject with its preloaded tasks to DTO
func ToSharedProjectDTO(project models.SharedProject) SharedProjectDTO {
	return SharedProjectDTO{
		ID:          project.ID,
		CommunityID: project.CommunityID,
		CreatedByID: project.CreatedByID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		Progress:    progress.Shared(project.Tasks),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Tasks:       ToSharedTaskDTOs(project.Tasks),
	}
}

// ToSharedProjectDTOs converts a slice of shared projects
func ToSharedProjectDTOs(projects []models.SharedProject) []SharedProjectDTO {
	items := make([]SharedProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToSharedProjectDTO(project)
	}
	return items
}

// ToNotificationDTO converts a Notification model to DTO
func ToNotificationDTO(notification models.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:          notification.ID,
		Type:        notification.Type,
		Status:      notification.Status,
		Message:     notification.Message,
		CommunityID: notification.CommunityID,
		CreatedAt:   notification.CreatedAt,
	}

	// Include actor if preloaded
	if notification.Actor.ID != 0 {
		actor := ToUserDTO(notification.Actor)
		dto.Actor = &actor
	}

	if notification.Community != nil {
		dto.Community = notification.Community.Name
	}

	return dto
}

// ToNotificationListResponse converts a page of notifications
func ToNotificationListResponse(notifications []models.Notification, params utils.PaginationParams, total int64) NotificationListResponse {
	items := make([]NotificationDTO, len(notifications))
	for i, notification := range notifications {
		items[i] = ToNotificationDTO(notification)
	}

	return NotificationListResponse{
		Notifications: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
