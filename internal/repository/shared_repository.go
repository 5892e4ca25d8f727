package repository

import (
	"github.com/yukikurage/progress-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSharedRepository is a GORM implementation of SharedRepository
type GormSharedRepository struct {
	db *gorm.DB
}

// NewSharedRepository creates a new SharedRepository
func NewSharedRepository(db *gorm.DB) SharedRepository {
	return &GormSharedRepository{db: db}
}

func (r *GormSharedRepository) CreateProject(project *models.SharedProject) error {
	return r.db.Omit(clause.Associations).Create(project).Error
}

func (r *GormSharedRepository) FindProject(id uint64) (*models.SharedProject, error) {
	var project models.SharedProject
	if err := r.db.Preload("Tasks", orderByCreation).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormSharedRepository) ListProjects(communityIDs []uint64) ([]models.SharedProject, error) {
	if len(communityIDs) == 0 {
		return []models.SharedProject{}, nil
	}

	var projects []models.SharedProject
	if err := r.db.Preload("Tasks", orderByCreation).
		Where("community_id IN ?", communityIDs).
		Order("created_at DESC").
		Order("id DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormSharedRepository) UpdateProject(project *models.SharedProject) error {
	return r.db.Omit(clause.Associations).Save(project).Error
}

func (r *GormSharedRepository) DeleteProject(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shared_project_id = ?", id).Delete(&models.SharedTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shared_project_id = ?", id).Delete(&models.SharedNote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SharedProject{}, id).Error
	})
}

func (r *GormSharedRepository) CreateTask(task *models.SharedTask) error {
	return r.db.Create(task).Error
}

func (r *GormSharedRepository) FindTask(id uint64) (*models.SharedTask, error) {
	var task models.SharedTask
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *GormSharedRepository) ListTasks(sharedProjectIDs []uint64) ([]models.SharedTask, error) {
	if len(sharedProjectIDs) == 0 {
		return []models.SharedTask{}, nil
	}

	var tasks []models.SharedTask
	if err := r.db.Where("shared_project_id IN ?", sharedProjectIDs).
		Scopes(orderByCreation).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *GormSharedRepository) UpdateTask(task *models.SharedTask) error {
	return r.db.Save(task).Error
}

func (r *GormSharedRepository) DeleteTask(id uint64) error {
	return r.db.Delete(&models.SharedTask{}, id).Error
}

func (r *GormSharedRepository) CreateNote(note *models.SharedNote) error {
	return r.db.Create(note).Error
}

func (r *GormSharedRepository) FindNote(id uint64) (*models.SharedNote, error) {
	var note models.SharedNote
	if err := r.db.First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *GormSharedRepository) ListNotes(sharedProjectIDs []uint64) ([]models.SharedNote, error) {
	if len(sharedProjectIDs) == 0 {
		return []models.SharedNote{}, nil
	}

	var notes []models.SharedNote
	if err := r.db.Where("shared_project_id IN ?", sharedProjectIDs).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormSharedRepository) DeleteNote(id uint64) error {
	return r.db.Delete(&models.SharedNote{}, id).Error
}

func (r *GormSharedRepository) ProjectIDsForCommunities(communityIDs []uint64) ([]uint64, error) {
	if len(communityIDs) == 0 {
		return []uint64{}, nil
	}

	var ids []uint64
	if err := r.db.Model(&models.SharedProject{}).
		Where("community_id IN ?", communityIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
