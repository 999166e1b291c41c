// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package tracker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/projecttasks/projecttasks/internal/auth"
)

// Service coordinates project and task operations behind the ownership guard.
type Service struct {
	projects ProjectRepository
	tasks    TaskRepository
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(projects ProjectRepository, tasks TaskRepository) (*Service, error) {
	return NewServiceWithLogger(projects, tasks, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(projects ProjectRepository, tasks TaskRepository, logger *slog.Logger) (*Service, error) {
	if projects == nil {
		return nil, oops.Errorf("projects repository is required")
	}
	if tasks == nil {
		return nil, oops.Errorf("tasks repository is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		projects: projects,
		tasks:    tasks,
		logger:   logger,
	}, nil
}

// AuthorizeProject loads a project and checks that the identity owns it.
// An absent project and a project owned by someone else return an identical
// ErrNotFound, so callers cannot tell the two apart.
func (s *Service) AuthorizeProject(ctx context.Context, identity auth.Identity, projectID ulid.ULID) (*Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, projectNotFound(projectID)
		}
		return nil, oops.Code("PROJECT_GET_FAILED").
			With("operation", "get project by id").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	if project.OwnerID.Compare(identity.UserID) != 0 {
		return nil, projectNotFound(projectID)
	}
	return project, nil
}

// AuthorizeTask checks project ownership and then loads the task.
// Ownership is always checked before the task lookup so task existence never
// leaks across projects; a task that lives in a different project is reported
// as not found.
func (s *Service) AuthorizeTask(ctx context.Context, identity auth.Identity, projectID, taskID ulid.ULID) (*Task, error) {
	if _, err := s.AuthorizeProject(ctx, identity, projectID); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, taskNotFound(projectID, taskID)
		}
		return nil, oops.Code("TASK_GET_FAILED").
			With("operation", "get task by id").
			With("task_id", taskID.String()).
			Wrap(err)
	}
	if task.ProjectID.Compare(projectID) != 0 {
		return nil, taskNotFound(projectID, taskID)
	}
	return task, nil
}

// CreateProject creates a project owned by the identity.
func (s *Service) CreateProject(ctx context.Context, identity auth.Identity, title, description string) (*Project, error) {
	project, err := NewProject(identity.UserID, title, description)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, oops.Code("PROJECT_CREATE_FAILED").
			With("operation", "insert project").
			Wrap(err)
	}
	s.logger.Info("project created",
		"project_id", project.ID.String(),
		"owner_id", identity.UserID.String(),
	)
	return project, nil
}

// ListProjects returns all projects owned by the identity with task counts,
// newest first.
func (s *Service) ListProjects(ctx context.Context, identity auth.Identity) ([]ProjectSummary, error) {
	summaries, err := s.projects.ListByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, oops.Code("PROJECT_LIST_FAILED").
			With("operation", "list projects by owner").
			Wrap(err)
	}
	return summaries, nil
}

// GetProject returns a single project after the ownership check.
func (s *Service) GetProject(ctx context.Context, identity auth.Identity, projectID ulid.ULID) (*Project, error) {
	return s.AuthorizeProject(ctx, identity, projectID)
}

// UpdateProject updates a project's title and description.
func (s *Service) UpdateProject(ctx context.Context, identity auth.Identity, projectID ulid.ULID, title, description string) (*Project, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	project, err := s.AuthorizeProject(ctx, identity, projectID)
	if err != nil {
		return nil, err
	}

	project.Title = title
	project.Description = description
	project.UpdatedAt = time.Now()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, oops.Code("PROJECT_UPDATE_FAILED").
			With("operation", "update project").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return project, nil
}

// DeleteProject deletes a project and all of its tasks.
func (s *Service) DeleteProject(ctx context.Context, identity auth.Identity, projectID ulid.ULID) error {
	if _, err := s.AuthorizeProject(ctx, identity, projectID); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleted between the authorize call and here; same outcome.
			return projectNotFound(projectID)
		}
		return oops.Code("PROJECT_DELETE_FAILED").
			With("operation", "delete project").
			With("project_id", projectID.String()).
			Wrap(err)
	}

	s.logger.Info("project deleted",
		"project_id", projectID.String(),
		"owner_id", identity.UserID.String(),
	)
	return nil
}

// CreateTask creates a task in a project the identity owns.
func (s *Service) CreateTask(ctx context.Context, identity auth.Identity, projectID ulid.ULID, title, description string, dueDate *time.Time) (*Task, error) {
	if _, err := s.AuthorizeProject(ctx, identity, projectID); err != nil {
		return nil, err
	}

	task, err := NewTask(projectID, title, description, dueDate)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, oops.Code("TASK_CREATE_FAILED").
			With("operation", "insert task").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return task, nil
}

// ListTasks returns all tasks in a project the identity owns.
func (s *Service) ListTasks(ctx context.Context, identity auth.Identity, projectID ulid.ULID) ([]*Task, error) {
	if _, err := s.AuthorizeProject(ctx, identity, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "list tasks by project").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return tasks, nil
}

// GetTask returns a single task after the ownership and containment checks.
func (s *Service) GetTask(ctx context.Context, identity auth.Identity, projectID, taskID ulid.ULID) (*Task, error) {
	return s.AuthorizeTask(ctx, identity, projectID, taskID)
}

// UpdateTaskParams carries the mutable task fields for UpdateTask.
// Completed is only changed when non-nil, matching the update semantics of
// the HTTP API.
type UpdateTaskParams struct {
	Title       string
	Description string
	DueDate     *time.Time
	Completed   *bool
}

// UpdateTask updates a task's fields.
func (s *Service) UpdateTask(ctx context.Context, identity auth.Identity, projectID, taskID ulid.ULID, params UpdateTaskParams) (*Task, error) {
	if err := ValidateTitle(params.Title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(params.Description); err != nil {
		return nil, err
	}

	task, err := s.AuthorizeTask(ctx, identity, projectID, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = params.Title
	task.Description = params.Description
	task.DueDate = params.DueDate
	if params.Completed != nil {
		task.Completed = *params.Completed
	}
	task.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			With("task_id", taskID.String()).
			Wrap(err)
	}
	return task, nil
}

// DeleteTask deletes a task.
func (s *Service) DeleteTask(ctx context.Context, identity auth.Identity, projectID, taskID ulid.ULID) error {
	if _, err := s.AuthorizeTask(ctx, identity, projectID, taskID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return taskNotFound(projectID, taskID)
		}
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("task_id", taskID.String()).
			Wrap(err)
	}
	return nil
}

func projectNotFound(projectID ulid.ULID) error {
	return oops.Code("PROJECT_NOT_FOUND").
		With("project_id", projectID.String()).
		Wrap(ErrNotFound)
}

func taskNotFound(projectID, taskID ulid.ULID) error {
	return oops.Code("TASK_NOT_FOUND").
		With("project_id", projectID.String()).
		With("task_id", taskID.String()).
		Wrap(ErrNotFound)
}
