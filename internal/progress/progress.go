// Package progress holds the pure rules that derive task and project progress
// from their children. Nothing here touches the store; callers load the
// children, apply the rule and decide whether to persist.
package progress

import (
	"math"

	"github.com/yukikurage/progress-api/internal/constants"
	"github.com/yukikurage/progress-api/internal/models"
)

// Full is the progress value of a finished item.
const Full = 100.0

// TaskResult is the derived state of a task.
type TaskResult struct {
	Progress  float64
	Completed bool
}

// ForTask derives a task's progress and completed flag from its subtasks.
//
// Without subtasks the completed flag is authoritative and progress is 0 or 100.
// With subtasks progress is the completed share, and completed is forced to
// match progress == 100 regardless of what was stored before.
func ForTask(completed bool, subtasks []models.Subtask) TaskResult {
	if len(subtasks) == 0 {
		if completed {
			return TaskResult{Progress: Full, Completed: true}
		}
		return TaskResult{Progress: 0, Completed: false}
	}

	done := 0
	for _, s := range subtasks {
		if s.Completed {
			done++
		}
	}

	p := float64(done) / float64(len(subtasks)) * Full
	return TaskResult{Progress: p, Completed: p == Full}
}

// ForProject returns the unweighted mean of the tasks' progress, or 0 when
// there are no tasks.
func ForProject(tasks []models.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}

	var sum float64
	for _, t := range tasks {
		sum += t.Progress
	}
	return sum / float64(len(tasks))
}

// ProjectStatus returns the status a project moves to when its progress
// changes to p. Completed and archived projects are never moved back.
func ProjectStatus(current models.ProjectStatus, p float64) models.ProjectStatus {
	if p == Full {
		return models.ProjectStatusCompleted
	}
	if p > 0 && current == models.ProjectStatusPending {
		return models.ProjectStatusInProgress
	}
	return current
}

// Changed reports whether the difference between stored and computed progress
// is large enough to be written.
func Changed(stored, computed float64) bool {
	return math.Abs(stored-computed) > constants.ProgressEpsilon
}

// Shared returns the completed share of shared tasks as a percentage rounded
// to one decimal place.
func Shared(tasks []models.SharedTask) float64 {
	if len(tasks) == 0 {
		return 0
	}

	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}

	p := float64(done) / float64(len(tasks)) * Full
	return math.Round(p*10) / 10
}
