// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

// Package tracker provides the project/task domain for ProjectTasks.
//
// Every operation takes an explicit auth.Identity and runs an ownership check
// before touching the requested resource. A project that does not exist and a
// project owned by someone else produce the same ErrNotFound, so callers
// cannot probe for the existence of other users' resources. A task's
// authorization boundary is always its parent project's owner; tasks carry no
// owner of their own.
package tracker
