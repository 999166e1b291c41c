// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/projecttasks/projecttasks/internal/auth"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	_, err := s.auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		s.recordRegistration(err)
		return s.writeError(c, err)
	}

	s.recordRegistration(nil)
	return c.JSON(http.StatusOK, messageResponse{Message: "user registered"})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	token, user, err := s.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		s.recordLogin(err)
		return s.writeError(c, err)
	}

	s.recordLogin(nil)
	return c.JSON(http.StatusOK, loginResponse{
		Token: token,
		ID:    user.ID.String(),
		Email: user.Email,
	})
}

func (s *Server) recordRegistration(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.RecordRegistration("success")
	case errors.Is(err, auth.ErrDuplicateEmail):
		s.metrics.RecordRegistration("duplicate_email")
	default:
		s.metrics.RecordRegistration("error")
	}
}

func (s *Server) recordLogin(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.RecordLogin("success")
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.metrics.RecordLogin("invalid_credentials")
	default:
		s.metrics.RecordLogin("error")
	}
}
