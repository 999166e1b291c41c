// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that is already taken.
// Repository implementations map the store's unique-constraint violation to
// this error so the check-then-insert race collapses to the same outcome.
var ErrDuplicateEmail = errors.New("email already in use")

// ErrInvalidCredentials is returned for both unknown email and wrong password.
// The two cases must stay indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrIdentityNotFound is returned when a valid token names a user that no
// longer exists.
var ErrIdentityNotFound = errors.New("identity not found")

// Token validation failures. All three deny access identically at the
// boundary; they are distinct so logs can tell them apart.
var (
	ErrTokenMalformed   = errors.New("token malformed")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenUnsupported = errors.New("token uses unsupported signing scheme")
)
