package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/progress-api/internal/models"
)

func subtasks(states ...bool) []models.Subtask {
	out := make([]models.Subtask, len(states))
	for i, s := range states {
		out[i] = models.Subtask{Completed: s}
	}
	return out
}

func TestForTask(t *testing.T) {
	tests := []struct {
		name      string
		completed bool
		subtasks  []models.Subtask
		want      TaskResult
	}{
		{"no subtasks incomplete", false, nil, TaskResult{0, false}},
		{"no subtasks complete", true, nil, TaskResult{100, true}},
		{"half done", false, subtasks(true, false), TaskResult{50, false}},
		{"all done forces completed", false, subtasks(true, true), TaskResult{100, true}},
		{"manual complete reset while subtasks remain", true, subtasks(true, false, false), TaskResult{100.0 / 3, false}},
		{"none done", true, subtasks(false), TaskResult{0, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForTask(tt.completed, tt.subtasks)
			assert.InDelta(t, tt.want.Progress, got.Progress, 1e-9)
			assert.Equal(t, tt.want.Completed, got.Completed)
		})
	}
}

func TestForProject(t *testing.T) {
	assert.Equal(t, 0.0, ForProject(nil))

	tasks := []models.Task{{Progress: 0}, {Progress: 50}, {Progress: 100}}
	assert.Equal(t, 50.0, ForProject(tasks))

	// A task with many subtasks weighs the same as one with none.
	tasks = []models.Task{{Progress: 100}, {Progress: 25}}
	assert.Equal(t, 62.5, ForProject(tasks))
}

func TestProjectStatus(t *testing.T) {
	assert.Equal(t, models.ProjectStatusInProgress, ProjectStatus(models.ProjectStatusPending, 50))
	assert.Equal(t, models.ProjectStatusPending, ProjectStatus(models.ProjectStatusPending, 0))
	assert.Equal(t, models.ProjectStatusCompleted, ProjectStatus(models.ProjectStatusInProgress, 100))
	assert.Equal(t, models.ProjectStatusCompleted, ProjectStatus(models.ProjectStatusCompleted, 40))
	assert.Equal(t, models.ProjectStatusArchived, ProjectStatus(models.ProjectStatusArchived, 40))
}

func TestChanged(t *testing.T) {
	assert.False(t, Changed(50, 50.005))
	assert.True(t, Changed(50, 50.02))
	assert.True(t, Changed(100, 0))
}

func TestShared(t *testing.T) {
	assert.Equal(t, 0.0, Shared(nil))

	tasks := []models.SharedTask{{Completed: true}, {Completed: false}, {Completed: false}}
	assert.Equal(t, 33.3, Shared(tasks))

	tasks = append(tasks, models.SharedTask{Completed: true})
	assert.Equal(t, 50.0, Shared(tasks))
}
