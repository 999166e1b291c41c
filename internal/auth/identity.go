// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package auth

import "github.com/oklog/ulid/v2"

// Identity is the authenticated principal for one inbound request.
//
// It is a plain value produced by Service.Resolve and passed explicitly to
// anything that needs it. It must not be cached across requests.
type Identity struct {
	UserID ulid.ULID
	Email  string
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i.UserID.Compare(ulid.ULID{}) == 0
}
