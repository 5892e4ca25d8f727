package repository

import (
	"github.com/yukikurage/progress-api/internal/database"
	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Omit(clause.Associations).Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindForUser finds one of the user's projects with its task tree loaded
func (r *GormProjectRepository) FindForUser(id, userID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.
		Preload("Tasks", orderByCreation).
		Preload("Tasks.Subtasks", orderByCreation).
		Preload("User").
		Where("user_id = ?", userID).
		First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByUser lists the user's projects
func (r *GormProjectRepository) ListByUser(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.
		Preload("Tasks", orderByCreation).
		Preload("Tasks.Subtasks", orderByCreation).
		Preload("User").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListPublic lists projects visible on the community board
func (r *GormProjectRepository) ListPublic(statuses []models.ProjectStatus, page utils.PaginationParams) ([]models.Project, int64, error) {
	query := r.db.Model(&models.Project{}).Where("status IN ?", statuses).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.
		Preload("User").
		Order("progress DESC").
		Order("id ASC").
		Scopes(database.Paginate(page)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project's own columns
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit(clause.Associations).Save(project).Error
}

// UpdateDerived writes progress and status
func (r *GormProjectRepository) UpdateDerived(id uint64, progress float64, status models.ProjectStatus) error {
	return r.db.Model(&models.Project{ID: id}).Updates(map[string]interface{}{
		"progress": progress,
		"status":   status,
	}).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)

		// Delete all subtasks of the project's tasks
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}

		// Delete all tasks
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		// Detach notes and focus sessions
		if err := tx.Model(&models.Note{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.FocusSession{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
			return err
		}

		// Delete project
		return tx.Delete(&models.Project{}, id).Error
	})
}

func orderByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
