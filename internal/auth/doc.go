// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

// Package auth provides authentication primitives for ProjectTasks.
//
// # Domain Types
//
// User should be created with NewUser, which validates the email and stores
// only the password hash. Direct struct initialization bypasses validation.
//
// # Services
//
//   - TokenService - issues and validates signed session tokens (JWT HS256)
//   - Service - registration, login, and identity resolution
//
// The resolved Identity is a plain value scoped to one request. It is passed
// explicitly down the call chain; there is no process-global "current user".
package auth
