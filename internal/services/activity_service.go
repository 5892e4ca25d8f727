package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/progress-api/internal/constants"
	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrNoteNotFound    = errors.New("note not found")
)

const untaggedLabel = "untagged"

// ActivityService handles focus sessions and personal notes
type ActivityService struct {
	repos *repository.Repositories
	now   func() time.Time
}

// NewActivityService creates a new ActivityService
func NewActivityService(repos *repository.Repositories) *ActivityService {
	return &ActivityService{
		repos: repos,
		now:   time.Now,
	}
}

// CreateFocusSessionInput represents input for logging a focus session
type CreateFocusSessionInput struct {
	UserID          uint64
	ProjectID       *uint64
	Tag             string
	DurationMinutes int
	StartedAt       *time.Time
	Note            string
}

// FocusReport aggregates a user's focus time over the report window
type FocusReport struct {
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
	TotalMinutes int            `json:"total_minutes"`
	ByTag        []TagTotal     `json:"by_tag"`
	ByProject    []ProjectTotal `json:"by_project"`
	ByDay        []DayTotal     `json:"by_day"`
}

type TagTotal struct {
	Tag      string `json:"tag"`
	Minutes  int    `json:"minutes"`
	Sessions int    `json:"sessions"`
}

type ProjectTotal struct {
	ProjectID   *uint64 `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Minutes     int     `json:"minutes"`
	Sessions    int     `json:"sessions"`
}

type DayTotal struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// CreateFocusSession logs a focus session. A project, when given, must be owned by the user.
func (s *ActivityService) CreateFocusSession(input CreateFocusSessionInput) (*models.FocusSession, error) {
	if input.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if input.ProjectID != nil {
		if _, err := ensureProjectOwner(s.repos, *input.ProjectID, input.UserID); err != nil {
			return nil, err
		}
	}

	startedAt := s.now().UTC()
	if input.StartedAt != nil {
		startedAt = input.StartedAt.UTC()
	}

	session := &models.FocusSession{
		UserID:          input.UserID,
		ProjectID:       input.ProjectID,
		Tag:             strings.TrimSpace(input.Tag),
		DurationMinutes: input.DurationMinutes,
		StartedAt:       startedAt,
		Note:            input.Note,
	}

	if err := s.repos.FocusSessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create focus session: %w", err)
	}

	return session, nil
}

// ListFocusSessions returns the user's sessions, newest first
func (s *ActivityService) ListFocusSessions(userID uint64) ([]models.FocusSession, error) {
	sessions, err := s.repos.FocusSessions.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list focus sessions: %w", err)
	}
	return sessions, nil
}

// FocusReport aggregates the user's sessions of the trailing report window by
// tag, by project and by calendar day (UTC).
func (s *ActivityService) FocusReport(userID uint64) (*FocusReport, error) {
	to := s.now().UTC()
	from := to.AddDate(0, 0, -constants.FocusReportWindowDays)

	sessions, err := s.repos.FocusSessions.ListBetween(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load focus sessions: %w", err)
	}

	return buildFocusReport(sessions, from, to), nil
}

func buildFocusReport(sessions []models.FocusSession, from, to time.Time) *FocusReport {
	report := &FocusReport{
		From:      from,
		To:        to,
		ByTag:     []TagTotal{},
		ByProject: []ProjectTotal{},
		ByDay:     []DayTotal{},
	}

	tags := map[string]*TagTotal{}
	projects := map[uint64]*ProjectTotal{}
	var unassigned *ProjectTotal
	days := map[string]*DayTotal{}

	for _, session := range sessions {
		report.TotalMinutes += session.DurationMinutes

		tag := session.Tag
		if tag == "" {
			tag = untaggedLabel
		}
		tt, ok := tags[tag]
		if !ok {
			tt = &TagTotal{Tag: tag}
			tags[tag] = tt
		}
		tt.Minutes += session.DurationMinutes
		tt.Sessions++

		var pt *ProjectTotal
		if session.ProjectID == nil {
			if unassigned == nil {
				unassigned = &ProjectTotal{}
			}
			pt = unassigned
		} else {
			pt, ok = projects[*session.ProjectID]
			if !ok {
				id := *session.ProjectID
				pt = &ProjectTotal{ProjectID: &id}
				if session.Project != nil {
					pt.ProjectName = session.Project.Name
				}
				projects[id] = pt
			}
		}
		pt.Minutes += session.DurationMinutes
		pt.Sessions++

		day := session.StartedAt.UTC().Format("2006-01-02")
		dt, ok := days[day]
		if !ok {
			dt = &DayTotal{Date: day}
			days[day] = dt
		}
		dt.Minutes += session.DurationMinutes
	}

	for _, tt := range tags {
		report.ByTag = append(report.ByTag, *tt)
	}
	sort.Slice(report.ByTag, func(i, j int) bool {
		if report.ByTag[i].Minutes != report.ByTag[j].Minutes {
			return report.ByTag[i].Minutes > report.ByTag[j].Minutes
		}
		return report.ByTag[i].Tag < report.ByTag[j].Tag
	})

	for _, pt := range projects {
		report.ByProject = append(report.ByProject, *pt)
	}
	sort.Slice(report.ByProject, func(i, j int) bool {
		if report.ByProject[i].Minutes != report.ByProject[j].Minutes {
			return report.ByProject[i].Minutes > report.ByProject[j].Minutes
		}
		return *report.ByProject[i].ProjectID < *report.ByProject[j].ProjectID
	})
	if unassigned != nil {
		report.ByProject = append(report.ByProject, *unassigned)
	}

	for _, dt := range days {
		report.ByDay = append(report.ByDay, *dt)
	}
	sort.Slice(report.ByDay, func(i, j int) bool {
		return report.ByDay[i].Date < report.ByDay[j].Date
	})

	return report
}

// CreateNoteInput represents input for creating a note
type CreateNoteInput struct {
	UserID    uint64
	ProjectID *uint64
	Title     string
	Content   string
}

// UpdateNoteInput represents input for updating a note. A ProjectID of 0 detaches the note.
type UpdateNoteInput struct {
	ProjectID *uint64
	Title     *string
	Content   *string
}

// ListNotes returns the user's notes, optionally for one project
func (s *ActivityService) ListNotes(userID uint64, projectID *uint64) ([]models.Note, error) {
	notes, err := s.repos.Notes.ListByUser(userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// GetNote returns one of the user's notes
func (s *ActivityService) GetNote(noteID, userID uint64) (*models.Note, error) {
	note, err := s.repos.Notes.FindForUser(noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	return note, nil
}

// CreateNote creates a note, optionally attached to one of the user's projects
func (s *ActivityService) CreateNote(input CreateNoteInput) (*models.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.ProjectID != nil {
		if _, err := ensureProjectOwner(s.repos, *input.ProjectID, input.UserID); err != nil {
			return nil, err
		}
	}

	note := &models.Note{
		UserID:    input.UserID,
		ProjectID: input.ProjectID,
		Title:     title,
		Content:   input.Content,
	}

	if err := s.repos.Notes.Create(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

// UpdateNote updates one of the user's notes
func (s *ActivityService) UpdateNote(noteID, userID uint64, input UpdateNoteInput) (*models.Note, error) {
	note, err := s.GetNote(noteID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		note.Title = title
	}
	if input.Content != nil {
		note.Content = *input.Content
	}
	if input.ProjectID != nil {
		if *input.ProjectID == 0 {
			note.ProjectID = nil
		} else {
			if _, err := ensureProjectOwner(s.repos, *input.ProjectID, userID); err != nil {
				return nil, err
			}
			note.ProjectID = input.ProjectID
		}
	}

	if err := s.repos.Notes.Update(note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

// DeleteNote deletes one of the user's notes
func (s *ActivityService) DeleteNote(noteID, userID uint64) error {
	if _, err := s.GetNote(noteID, userID); err != nil {
		return err
	}

	if err := s.repos.Notes.Delete(noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}
