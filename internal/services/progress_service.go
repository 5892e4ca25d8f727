package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/progress-api/internal/models"
	"github.com/yukikurage/progress-api/internal/progress"
	"github.com/yukikurage/progress-api/internal/repository"
	"gorm.io/gorm"
)

// Propagator recomputes derived progress after a task or subtask write. It is
// always called with the repositories of the transaction that made the write,
// so children and parents commit together.
type Propagator struct {
	repos *repository.Repositories
}

// NewPropagator binds a propagator to a transaction's repositories.
func NewPropagator(repos *repository.Repositories) *Propagator {
	return &Propagator{repos: repos}
}

// AfterSubtaskChange recomputes the owning task and then its project.
func (p *Propagator) AfterSubtaskChange(taskID uint64) error {
	task, err := p.RecomputeTask(taskID)
	if err != nil || task == nil {
		return err
	}
	return p.RecomputeProject(task.ProjectID)
}

// AfterTaskChange recomputes a created or updated task and then its project.
func (p *Propagator) AfterTaskChange(taskID uint64) error {
	return p.AfterSubtaskChange(taskID)
}

// AfterTaskDelete recomputes the former project of a deleted task. The task
// itself is gone and is not recomputed.
func (p *Propagator) AfterTaskDelete(projectID uint64) error {
	return p.RecomputeProject(projectID)
}

// RecomputeTask derives a task's progress from its current subtasks and
// persists it when it changed. A missing task is not an error; it returns nil.
func (p *Propagator) RecomputeTask(taskID uint64) (*models.Task, error) {
	task, err := p.repos.Tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load task for recompute: %w", err)
	}

	subtasks, err := p.repos.Subtasks.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subtasks for recompute: %w", err)
	}

	result := progress.ForTask(task.Completed, subtasks)
	if !progress.Changed(task.Progress, result.Progress) && task.Completed == result.Completed {
		return task, nil
	}

	if err := p.repos.Tasks.UpdateDerived(task.ID, result.Progress, result.Completed); err != nil {
		return nil, fmt.Errorf("failed to store task progress: %w", err)
	}

	task.Progress = result.Progress
	task.Completed = result.Completed
	return task, nil
}

// RecomputeProject derives a project's progress from its current tasks and
// persists it when it changed. A missing project is not an error.
func (p *Propagator) RecomputeProject(projectID uint64) error {
	project, err := p.repos.Projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load project for recompute: %w", err)
	}

	tasks, err := p.repos.Tasks.ListByProject(projectID)
	if err != nil {
		return fmt.Errorf("failed to load tasks for recompute: %w", err)
	}

	computed := progress.ForProject(tasks)
	if !progress.Changed(project.Progress, computed) {
		return nil
	}

	status := progress.ProjectStatus(project.Status, computed)
	if err := p.repos.Projects.UpdateDerived(project.ID, computed, status); err != nil {
		return fmt.Errorf("failed to store project progress: %w", err)
	}

	return nil
}
