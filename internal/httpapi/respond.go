// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/projecttasks/projecttasks/internal/auth"
	"github.com/projecttasks/projecttasks/internal/tracker"
	"github.com/projecttasks/projecttasks/pkg/errutil"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// validationCodes are error codes safe to surface verbatim as a 400.
var validationCodes = map[string]bool{
	"AUTH_INVALID_EMAIL":          true,
	"AUTH_INVALID_PASSWORD":       true,
	"TRACKER_INVALID_TITLE":       true,
	"TRACKER_INVALID_DESCRIPTION": true,
}

// writeError maps a service error to an HTTP response.
//
// Authentication failures all collapse to the same 401 body. Not-found and
// not-owned are already indistinguishable by the time they reach here.
// Anything unrecognized is logged server-side and reported as an opaque 500.
func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
	case errors.Is(err, auth.ErrDuplicateEmail):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "email already in use"})
	case errors.Is(err, auth.ErrTokenMalformed),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenUnsupported),
		errors.Is(err, auth.ErrIdentityNotFound):
		return s.unauthorized(c)
	case errors.Is(err, tracker.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}

	if validationCodes[errutil.CodeOf(err)] {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	errutil.LogError(s.logger, "request failed", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// unauthorized writes the uniform 401 response.
func (s *Server) unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}
