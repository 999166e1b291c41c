// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package httpapi

import (
	"context"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/projecttasks/projecttasks/internal/auth"
	"github.com/projecttasks/projecttasks/internal/tracker"
)

// memStore is an in-memory backing store for handler tests. It mirrors the
// semantics the postgres repositories provide, including the task cascade on
// project delete.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*auth.User
	projects map[string]*tracker.Project
	tasks    map[string]*tracker.Task
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*auth.User),
		projects: make(map[string]*tracker.Project),
		tasks:    make(map[string]*tracker.Task),
	}
}

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) Create(_ context.Context, user *auth.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return auth.ErrDuplicateEmail
		}
	}
	clone := *user
	r.store.users[user.ID.String()] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id.String()]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Update(_ context.Context, user *auth.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID.String()]; !ok {
		return auth.ErrNotFound
	}
	clone := *user
	r.store.users[user.ID.String()] = &clone
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[id.String()]; !ok {
		return auth.ErrNotFound
	}
	delete(r.store.users, id.String())
	return nil
}

type memProjectRepo struct {
	store *memStore
}

func (r *memProjectRepo) Create(_ context.Context, project *tracker.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *project
	r.store.projects[project.ID.String()] = &clone
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id ulid.ULID) (*tracker.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.projects[id.String()]
	if !ok {
		return nil, tracker.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memProjectRepo) ListByOwner(_ context.Context, ownerID ulid.ULID) ([]tracker.ProjectSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	summaries := []tracker.ProjectSummary{}
	for _, p := range r.store.projects {
		if p.OwnerID.Compare(ownerID) != 0 {
			continue
		}
		var summary tracker.ProjectSummary
		summary.Project = *p
		for _, task := range r.store.tasks {
			if task.ProjectID.Compare(p.ID) != 0 {
				continue
			}
			summary.TaskCount++
			if task.Completed {
				summary.CompletedTaskCount++
			}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (r *memProjectRepo) Update(_ context.Context, project *tracker.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.projects[project.ID.String()]; !ok {
		return tracker.ErrNotFound
	}
	clone := *project
	r.store.projects[project.ID.String()] = &clone
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.projects[id.String()]; !ok {
		return tracker.ErrNotFound
	}
	delete(r.store.projects, id.String())
	for taskID, task := range r.store.tasks {
		if task.ProjectID.Compare(id) == 0 {
			delete(r.store.tasks, taskID)
		}
	}
	return nil
}

type memTaskRepo struct {
	store *memStore
}

func (r *memTaskRepo) Create(_ context.Context, task *tracker.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *task
	r.store.tasks[task.ID.String()] = &clone
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id ulid.ULID) (*tracker.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	task, ok := r.store.tasks[id.String()]
	if !ok {
		return nil, tracker.ErrNotFound
	}
	clone := *task
	return &clone, nil
}

func (r *memTaskRepo) ListByProject(_ context.Context, projectID ulid.ULID) ([]*tracker.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tasks := []*tracker.Task{}
	for _, task := range r.store.tasks {
		if task.ProjectID.Compare(projectID) == 0 {
			clone := *task
			tasks = append(tasks, &clone)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *memTaskRepo) Update(_ context.Context, task *tracker.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tasks[task.ID.String()]; !ok {
		return tracker.ErrNotFound
	}
	clone := *task
	r.store.tasks[task.ID.String()] = &clone
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tasks[id.String()]; !ok {
		return tracker.ErrNotFound
	}
	delete(r.store.tasks, id.String())
	return nil
}

// Compile-time interface checks.
var (
	_ auth.UserRepository       = (*memUserRepo)(nil)
	_ tracker.ProjectRepository = (*memProjectRepo)(nil)
	_ tracker.TaskRepository    = (*memTaskRepo)(nil)
)
