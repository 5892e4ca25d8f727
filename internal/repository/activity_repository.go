package repository

import (
	"time"

	"github.com/yukikurage/progress-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFocusSessionRepository is a GORM implementation of FocusSessionRepository
type GormFocusSessionRepository struct {
	db *gorm.DB
}

// NewFocusSessionRepository creates a new FocusSessionRepository
func NewFocusSessionRepository(db *gorm.DB) FocusSessionRepository {
	return &GormFocusSessionRepository{db: db}
}

func (r *GormFocusSessionRepository) Create(session *models.FocusSession) error {
	return r.db.Omit(clause.Associations).Create(session).Error
}

func (r *GormFocusSessionRepository) ListByUser(userID uint64) ([]models.FocusSession, error) {
	var sessions []models.FocusSession
	if err := r.db.Where("user_id = ?", userID).
		Order("started_at DESC").
		Order("id DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *GormFocusSessionRepository) ListBetween(userID uint64, from, to time.Time) ([]models.FocusSession, error) {
	var sessions []models.FocusSession
	if err := r.db.Preload("Project").
		Where("user_id = ? AND started_at >= ? AND started_at <= ?", userID, from, to).
		Order("started_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// GormNoteRepository is a GORM implementation of NoteRepository
type GormNoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &GormNoteRepository{db: db}
}

func (r *GormNoteRepository) Create(note *models.Note) error {
	return r.db.Omit(clause.Associations).Create(note).Error
}

func (r *GormNoteRepository) FindForUser(id, userID uint64) (*models.Note, error) {
	var note models.Note
	if err := r.db.Where("user_id = ?", userID).First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *GormNoteRepository) ListByUser(userID uint64, projectID *uint64) ([]models.Note, error) {
	query := r.db.Where("user_id = ?", userID)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var notes []models.Note
	if err := query.Order("updated_at DESC").Order("id DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormNoteRepository) Update(note *models.Note) error {
	return r.db.Omit(clause.Associations).Save(note).Error
}

func (r *GormNoteRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Note{}, id).Error
}
