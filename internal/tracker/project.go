// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package tracker

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Title validation constraints shared by projects and tasks.
const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
)

// Project represents a project owned by exactly one user.
type Project struct {
	ID          ulid.ULID
	Title       string
	Description string
	OwnerID     ulid.ULID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectSummary is a Project together with its task counts, as returned by
// list queries.
type ProjectSummary struct {
	Project
	TaskCount          int
	CompletedTaskCount int
}

// NewProject creates a validated Project with a fresh ID.
func NewProject(ownerID ulid.ULID, title, description string) (*Project, error) {
	if ownerID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("PROJECT_INVALID_OWNER").Errorf("owner ID cannot be zero")
	}
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Project{
		ID:          ulid.Make(),
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ValidateTitle validates a project or task title.
func ValidateTitle(title string) error {
	if title == "" {
		return oops.Code("TRACKER_INVALID_TITLE").Errorf("title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return oops.Code("TRACKER_INVALID_TITLE").
			With("max", MaxTitleLength).
			Errorf("title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

// ValidateDescription validates a project or task description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return oops.Code("TRACKER_INVALID_DESCRIPTION").
			With("max", MaxDescriptionLength).
			Errorf("description must be at most %d characters", MaxDescriptionLength)
	}
	return nil
}

// ProjectRepository manages project persistence.
type ProjectRepository interface {
	// Create stores a new project.
	Create(ctx context.Context, project *Project) error

	// GetByID retrieves a project by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*Project, error)

	// ListByOwner retrieves all projects owned by a user, newest first,
	// with task counts.
	ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]ProjectSummary, error)

	// Update updates an existing project. Returns ErrNotFound if absent.
	Update(ctx context.Context, project *Project) error

	// Delete removes a project and, via the store's cascade, all of its
	// tasks. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id ulid.ULID) error
}
