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

// ProjectRepository implements tracker.ProjectRepository using PostgreSQL.
type ProjectRepository struct {
	pool poolIface
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(pool poolIface) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create stores a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *tracker.Project) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO projects (id, title, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		project.ID.String(),
		project.Title,
		project.Description,
		project.OwnerID.String(),
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return oops.Code("PROJECT_CREATE_FAILED").
			With("operation", "insert project").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id ulid.ULID) (*tracker.Project, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, owner_id, created_at, updated_at
		FROM projects
		WHERE id = $1
	`, id.String())

	project, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PROJECT_NOT_FOUND").
			With("id", id.String()).
			Wrap(tracker.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PROJECT_GET_BY_ID_FAILED").
			With("operation", "get project by id").
			With("id", id.String()).
			Wrap(err)
	}
	return project, nil
}

// ListByOwner retrieves all projects owned by a user, newest first, with
// task counts computed in the same query.
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]tracker.ProjectSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.title, p.description, p.owner_id, p.created_at, p.updated_at,
		       COUNT(t.id) AS task_count,
		       COUNT(t.id) FILTER (WHERE t.completed) AS completed_task_count
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		WHERE p.owner_id = $1
		GROUP BY p.id, p.title, p.description, p.owner_id, p.created_at, p.updated_at
		ORDER BY p.id DESC
	`, ownerID.String())
	if err != nil {
		return nil, oops.Code("PROJECT_LIST_FAILED").
			With("operation", "list projects by owner").
			With("owner_id", ownerID.String()).
			Wrap(err)
	}
	defer rows.Close()

	summaries := []tracker.ProjectSummary{}
	for rows.Next() {
		var (
			idStr       string
			ownerStr    string
			summary     tracker.ProjectSummary
			created     time.Time
			updated     time.Time
			taskCount   int64
			doneCount   int64
			title       string
			description string
		)
		if err := rows.Scan(&idStr, &title, &description, &ownerStr, &created, &updated, &taskCount, &doneCount); err != nil {
			return nil, oops.Code("PROJECT_SCAN_FAILED").
				With("operation", "scan project summary").
				Wrap(err)
		}

		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("PROJECT_INVALID_ID").
				With("id", idStr).
				Wrap(err)
		}
		owner, err := ulid.Parse(ownerStr)
		if err != nil {
			return nil, oops.Code("PROJECT_INVALID_OWNER_ID").
				With("owner_id", ownerStr).
				Wrap(err)
		}

		summary.Project = tracker.Project{
			ID:          id,
			Title:       title,
			Description: description,
			OwnerID:     owner,
			CreatedAt:   created,
			UpdatedAt:   updated,
		}
		summary.TaskCount = int(taskCount)
		summary.CompletedTaskCount = int(doneCount)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PROJECT_LIST_FAILED").
			With("operation", "iterate projects").
			Wrap(err)
	}

	return summaries, nil
}

// Update updates an existing project.
func (r *ProjectRepository) Update(ctx context.Context, project *tracker.Project) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE projects SET
			title = $2,
			description = $3,
			updated_at = $4
		WHERE id = $1
	`,
		project.ID.String(),
		project.Title,
		project.Description,
		project.UpdatedAt,
	)
	if err != nil {
		return oops.Code("PROJECT_UPDATE_FAILED").
			With("operation", "update project").
			With("id", project.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PROJECT_NOT_FOUND").
			With("id", project.ID.String()).
			Wrap(tracker.ErrNotFound)
	}
	return nil
}

// Delete removes a project. Tasks go with it through the ON DELETE CASCADE
// constraint on tasks.project_id.
func (r *ProjectRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM projects WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("PROJECT_DELETE_FAILED").
			With("operation", "delete project").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PROJECT_NOT_FOUND").
			With("id", id.String()).
			Wrap(tracker.ErrNotFound)
	}
	return nil
}

// scanProject scans a single row into a Project.
// Callers are responsible for handling pgx.ErrNoRows.
func scanProject(row pgx.Row) (*tracker.Project, error) {
	var (
		idStr       string
		title       string
		description string
		ownerStr    string
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(&idStr, &title, &description, &ownerStr, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("PROJECT_SCAN_FAILED").
			With("operation", "scan project").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("PROJECT_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	owner, err := ulid.Parse(ownerStr)
	if err != nil {
		return nil, oops.Code("PROJECT_INVALID_OWNER_ID").
			With("owner_id", ownerStr).
			Wrap(err)
	}

	return &tracker.Project{
		ID:          id,
		Title:       title,
		Description: description,
		OwnerID:     owner,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ tracker.ProjectRepository = (*ProjectRepository)(nil)
