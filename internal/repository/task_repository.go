package repository

import (
	"github.com/yukikurage/progress-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// ownedProjectIDs is a subquery selecting the IDs of a user's projects
func ownedProjectIDs(db *gorm.DB, userID uint64) *gorm.DB {
	return db.Model(&models.Project{}).Select("id").Where("user_id = ?", userID)
}

// ownedTaskIDs is a subquery selecting the IDs of tasks under a user's projects
func ownedTaskIDs(db *gorm.DB, userID uint64) *gorm.DB {
	return db.Model(&models.Task{}).Select("id").Where("project_id IN (?)", ownedProjectIDs(db, userID))
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindForUser finds a task with subtasks if it belongs to one of the user's projects
func (r *GormTaskRepository) FindForUser(id, userID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.
		Preload("Subtasks", orderByCreation).
		Where("project_id IN (?)", ownedProjectIDs(r.db, userID)).
		First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	query := r.db.Model(&models.Task{}).
		Where("project_id IN (?)", ownedProjectIDs(r.db, filter.UserID))

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	var tasks []models.Task
	if err := query.
		Preload("Subtasks", orderByCreation).
		Scopes(orderByCreation).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByProject lists all tasks of a project
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("project_id = ?", projectID).Scopes(orderByCreation).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// UpdateDerived writes progress and completed
func (r *GormTaskRepository) UpdateDerived(id uint64, progress float64, completed bool) error {
	return r.db.Model(&models.Task{ID: id}).Updates(map[string]interface{}{
		"progress":  progress,
		"completed": completed,
	}).Error
}

// Delete deletes a task and its subtasks
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// GormSubtaskRepository is a GORM implementation of SubtaskRepository
type GormSubtaskRepository struct {
	db *gorm.DB
}

// NewSubtaskRepository creates a new SubtaskRepository
func NewSubtaskRepository(db *gorm.DB) SubtaskRepository {
	return &GormSubtaskRepository{db: db}
}

// Create creates a new subtask
func (r *GormSubtaskRepository) Create(subtask *models.Subtask) error {
	return r.db.Omit(clause.Associations).Create(subtask).Error
}

// FindForUser finds a subtask under one of the user's projects
func (r *GormSubtaskRepository) FindForUser(id, userID uint64) (*models.Subtask, error) {
	var subtask models.Subtask
	if err := r.db.
		Where("task_id IN (?)", ownedTaskIDs(r.db, userID)).
		First(&subtask, id).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

// List lists the user's subtasks
func (r *GormSubtaskRepository) List(userID uint64, taskID *uint64) ([]models.Subtask, error) {
	query := r.db.Model(&models.Subtask{}).Where("task_id IN (?)", ownedTaskIDs(r.db, userID))
	if taskID != nil {
		query = query.Where("task_id = ?", *taskID)
	}

	var subtasks []models.Subtask
	if err := query.Scopes(orderByCreation).Find(&subtasks).Error; err != nil {
		return nil, err
	}
	return subtasks, nil
}

// ListByTask lists all subtasks of a task
func (r *GormSubtaskRepository) ListByTask(taskID uint64) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	if err := r.db.Where("task_id = ?", taskID).Scopes(orderByCreation).Find(&subtasks).Error; err != nil {
		return nil, err
	}
	return subtasks, nil
}

// Update updates a subtask
func (r *GormSubtaskRepository) Update(subtask *models.Subtask) error {
	return r.db.Omit(clause.Associations).Save(subtask).Error
}

// Delete deletes a subtask
func (r *GormSubtaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Subtask{}, id).Error
}
