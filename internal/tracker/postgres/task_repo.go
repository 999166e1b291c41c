// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/projecttasks/projecttasks/internal/tracker"
)

// TaskRepository implements tracker.TaskRepository using PostgreSQL.
type TaskRepository struct {
	pool poolIface
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool poolIface) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// Create stores a new task.
func (r *TaskRepository) Create(ctx context.Context, task *tracker.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, project_id, title, description, due_date, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		task.ID.String(),
		task.ProjectID.String(),
		task.Title,
		task.Description,
		task.DueDate,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TASK_CREATE_FAILED").
			With("operation", "insert task").
			With("project_id", task.ProjectID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, id ulid.ULID) (*tracker.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, project_id, title, description, due_date, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`, id.String())

	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TASK_NOT_FOUND").
			With("id", id.String()).
			Wrap(tracker.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TASK_GET_BY_ID_FAILED").
			With("operation", "get task by id").
			With("id", id.String()).
			Wrap(err)
	}
	return task, nil
}

// ListByProject retrieves all tasks in a project, oldest first.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID ulid.ULID) ([]*tracker.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, title, description, due_date, completed, created_at, updated_at
		FROM tasks
		WHERE project_id = $1
		ORDER BY id
	`, projectID.String())
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "list tasks by project").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	defer rows.Close()

	tasks := []*tracker.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, oops.Code("TASK_SCAN_FAILED").
				With("operation", "scan task row").
				With("project_id", projectID.String()).
				Wrap(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "iterate tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}

	return tasks, nil
}

// Update updates an existing task.
func (r *TaskRepository) Update(ctx context.Context, task *tracker.Task) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE tasks SET
			title = $2,
			description = $3,
			due_date = $4,
			completed = $5,
			updated_at = $6
		WHERE id = $1
	`,
		task.ID.String(),
		task.Title,
		task.Description,
		task.DueDate,
		task.Completed,
		task.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			With("id", task.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("id", task.ID.String()).
			Wrap(tracker.ErrNotFound)
	}
	return nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("id", id.String()).
			Wrap(tracker.ErrNotFound)
	}
	return nil
}

// scanTask scans a single row into a Task.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTask(row pgx.Row) (*tracker.Task, error) {
	var (
		idStr       string
		projectStr  string
		title       string
		description string
		dueDate     *time.Time
		completed   bool
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(&idStr, &projectStr, &title, &description, &dueDate, &completed, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TASK_SCAN_FAILED").
			With("operation", "scan task").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	projectID, err := ulid.Parse(projectStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_PROJECT_ID").
			With("project_id", projectStr).
			Wrap(err)
	}

	return &tracker.Task{
		ID:          id,
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Completed:   completed,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ tracker.TaskRepository = (*TaskRepository)(nil)
