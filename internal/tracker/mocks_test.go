// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package tracker_test

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/projecttasks/projecttasks/internal/tracker"
)

// MockProjectRepository is a testify mock of tracker.ProjectRepository.
type MockProjectRepository struct {
	mock.Mock
}

var _ tracker.ProjectRepository = (*MockProjectRepository)(nil)

func (m *MockProjectRepository) Create(ctx context.Context, project *tracker.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id ulid.ULID) (*tracker.Project, error) {
	args := m.Called(ctx, id)
	if project, ok := args.Get(0).(*tracker.Project); ok {
		return project, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]tracker.ProjectSummary, error) {
	args := m.Called(ctx, ownerID)
	if summaries, ok := args.Get(0).([]tracker.ProjectSummary); ok {
		return summaries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *tracker.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTaskRepository is a testify mock of tracker.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

var _ tracker.TaskRepository = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) Create(ctx context.Context, task *tracker.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id ulid.ULID) (*tracker.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*tracker.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) ListByProject(ctx context.Context, projectID ulid.ULID) ([]*tracker.Task, error) {
	args := m.Called(ctx, projectID)
	if tasks, ok := args.Get(0).([]*tracker.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *tracker.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
