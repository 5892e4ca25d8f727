package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-api/internal/models"
)

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func TestBuildFocusReport_GroupsAndOrders(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	day1 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 23, 30, 0, 0, time.UTC)

	sessions := []models.FocusSession{
		{Tag: "deep", DurationMinutes: 50, StartedAt: day1, ProjectID: uint64Ptr(2), Project: &models.Project{ID: 2, Name: "Thesis"}},
		{Tag: "deep", DurationMinutes: 25, StartedAt: day2, ProjectID: uint64Ptr(1), Project: &models.Project{ID: 1, Name: "Garden"}},
		{Tag: "", DurationMinutes: 25, StartedAt: day2},
		{Tag: "admin", DurationMinutes: 25, StartedAt: day1, ProjectID: uint64Ptr(1), Project: &models.Project{ID: 1, Name: "Garden"}},
	}

	report := buildFocusReport(sessions, from, to)

	assert.Equal(t, 125, report.TotalMinutes)
	assert.Equal(t, from, report.From)
	assert.Equal(t, to, report.To)

	require.Len(t, report.ByTag, 3)
	assert.Equal(t, TagTotal{Tag: "deep", Minutes: 75, Sessions: 2}, report.ByTag[0])
	// Ties are ordered by tag name.
	assert.Equal(t, "admin", report.ByTag[1].Tag)
	assert.Equal(t, "untagged", report.ByTag[2].Tag)

	require.Len(t, report.ByProject, 3)
	assert.Equal(t, uint64(1), *report.ByProject[0].ProjectID)
	assert.Equal(t, "Garden", report.ByProject[0].ProjectName)
	assert.Equal(t, 50, report.ByProject[0].Minutes)
	assert.Equal(t, 2, report.ByProject[0].Sessions)
	assert.Equal(t, uint64(2), *report.ByProject[1].ProjectID)
	assert.Nil(t, report.ByProject[2].ProjectID)
	assert.Equal(t, 25, report.ByProject[2].Minutes)

	assert.Equal(t, []DayTotal{
		{Date: "2025-03-01", Minutes: 75},
		{Date: "2025-03-02", Minutes: 50},
	}, report.ByDay)
}

func TestBuildFocusReport_Empty(t *testing.T) {
	report := buildFocusReport(nil, time.Time{}, time.Time{})

	assert.Zero(t, report.TotalMinutes)
	assert.NotNil(t, report.ByTag)
	assert.NotNil(t, report.ByProject)
	assert.NotNil(t, report.ByDay)
}

func TestActivityService_FocusSessions(t *testing.T) {
	repos := newTestRepos(t)
	service := NewActivityService(repos)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	user := createTestUser(t, repos, "focused")
	other := createTestUser(t, repos, "other")

	_, err := service.CreateFocusSession(CreateFocusSessionInput{UserID: user.ID, DurationMinutes: 0})
	require.ErrorIs(t, err, ErrInvalidDuration)

	projects := NewProjectService(repos)
	foreign, err := projects.CreateProject(CreateProjectInput{OwnerID: other.ID, Name: "Theirs"})
	require.NoError(t, err)
	_, err = service.CreateFocusSession(CreateFocusSessionInput{UserID: user.ID, ProjectID: &foreign.ID, DurationMinutes: 25})
	require.ErrorIs(t, err, ErrNotProjectOwner)

	session, err := service.CreateFocusSession(CreateFocusSessionInput{UserID: user.ID, Tag: "deep", DurationMinutes: 25})
	require.NoError(t, err)
	assert.Equal(t, now, session.StartedAt.UTC())

	old := now.AddDate(-2, 0, 0)
	_, err = service.CreateFocusSession(CreateFocusSessionInput{UserID: user.ID, Tag: "deep", DurationMinutes: 90, StartedAt: &old})
	require.NoError(t, err)

	sessions, err := service.ListFocusSessions(user.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	// Sessions outside the window are left out of the report.
	report, err := service.FocusReport(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, report.TotalMinutes)
}

func TestActivityService_FocusReportIgnoresFutureSessions(t *testing.T) {
	repos := newTestRepos(t)
	service := NewActivityService(repos)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	user := createTestUser(t, repos, "planner")

	_, err := service.CreateFocusSession(CreateFocusSessionInput{UserID: user.ID, DurationMinutes: 20})
	require.NoError(t, err)
	future := now.AddDate(1, 0, 0)
	_, err = service.CreateFocusSession(CreateFocusSessionInput{UserID: user.ID, DurationMinutes: 30, StartedAt: &future})
	require.NoError(t, err)

	report, err := service.FocusReport(user.ID)
	require.NoError(t, err)
	assert.Equal(t, now, report.To)
	assert.Equal(t, 20, report.TotalMinutes)
	require.Len(t, report.ByDay, 1)
	assert.Equal(t, "2025-06-01", report.ByDay[0].Date)
}

func TestActivityService_Notes(t *testing.T) {
	repos := newTestRepos(t)
	service := NewActivityService(repos)
	user := createTestUser(t, repos, "writer")
	other := createTestUser(t, repos, "reader")

	_, err := service.CreateNote(CreateNoteInput{UserID: user.ID, Title: " "})
	require.ErrorIs(t, err, ErrTitleRequired)

	note, err := service.CreateNote(CreateNoteInput{UserID: user.ID, Title: "Ideas", Content: "first"})
	require.NoError(t, err)

	content := "second"
	updated, err := service.UpdateNote(note.ID, user.ID, UpdateNoteInput{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Content)
	assert.Equal(t, "Ideas", updated.Title)

	project, err := NewProjectService(repos).CreateProject(CreateProjectInput{OwnerID: user.ID, Name: "Book"})
	require.NoError(t, err)
	updated, err = service.UpdateNote(note.ID, user.ID, UpdateNoteInput{ProjectID: &project.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.ProjectID)
	assert.Equal(t, project.ID, *updated.ProjectID)

	detach := uint64(0)
	_, err = service.UpdateNote(note.ID, user.ID, UpdateNoteInput{ProjectID: &detach})
	require.NoError(t, err)
	stored, err := service.GetNote(note.ID, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ProjectID)

	_, err = service.GetNote(note.ID, other.ID)
	require.ErrorIs(t, err, ErrNoteNotFound)

	require.NoError(t, service.DeleteNote(note.ID, user.ID))
	_, err = service.GetNote(note.ID, user.ID)
	require.ErrorIs(t, err, ErrNoteNotFound)
}
