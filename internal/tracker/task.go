// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package tracker

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Task represents a task belonging to exactly one project.
// Tasks do not store an owner; authorization always goes through the parent
// project's OwnerID.
type Task struct {
	ID          ulid.ULID
	ProjectID   ulid.ULID
	Title       string
	Description string
	DueDate     *time.Time
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask creates a validated Task with a fresh ID. New tasks start
// uncompleted.
func NewTask(projectID ulid.ULID, title, description string, dueDate *time.Time) (*Task, error) {
	if projectID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("TASK_INVALID_PROJECT").Errorf("project ID cannot be zero")
	}
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Task{
		ID:          ulid.Make(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TaskRepository manages task persistence.
type TaskRepository interface {
	// Create stores a new task.
	Create(ctx context.Context, task *Task) error

	// GetByID retrieves a task by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*Task, error)

	// ListByProject retrieves all tasks in a project, oldest first.
	ListByProject(ctx context.Context, projectID ulid.ULID) ([]*Task, error)

	// Update updates an existing task. Returns ErrNotFound if absent.
	Update(ctx context.Context, task *Task) error

	// Delete removes a task. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id ulid.ULID) error
}
