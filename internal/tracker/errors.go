// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package tracker

import "errors"

// ErrNotFound is returned when a project or task does not exist, and equally
// when it exists but is not owned by the requesting identity. The two cases
// are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")
