// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/projecttasks/projecttasks/internal/tracker"
)

type projectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type projectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type projectSummaryResponse struct {
	projectResponse
	TaskCount          int `json:"taskCount"`
	CompletedTaskCount int `json:"completedTaskCount"`
}

func newProjectResponse(p *tracker.Project) projectResponse {
	return projectResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// pathULID parses a ULID path parameter. A malformed ID cannot name any
// resource, so it is reported as not found rather than a bad request.
func pathULID(c echo.Context, name string) (ulid.ULID, bool) {
	id, err := ulid.Parse(c.Param(name))
	if err != nil {
		return ulid.ULID{}, false
	}
	return id, true
}

func (s *Server) handleListProjects(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return s.unauthorized(c)
	}

	summaries, err := s.tracker.ListProjects(c.Request().Context(), identity)
	if err != nil {
		return s.writeError(c, err)
	}

	out := make([]projectSummaryResponse, 0, len(summaries))
	for i := range summaries {
		out = append(out, projectSummaryResponse{
			projectResponse:    newProjectResponse(&summaries[i].Project),
			TaskCount:          summaries[i].TaskCount,
			CompletedTaskCount: summaries[i].CompletedTaskCount,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return s.unauthorized(c)
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	project, err := s.tracker.CreateProject(c.Request().Context(), identity, req.Title, req.Description)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newProjectResponse(project))
}

func (s *Server) handleGetProject(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return s.unauthorized(c)
	}
	projectID, ok := pathULID(c, "projectId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}

	project, err := s.tracker.GetProject(c.Request().Context(), identity, projectID)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, newProjectResponse(project))
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return s.unauthorized(c)
	}
	projectID, ok := pathULID(c, "projectId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	project, err := s.tracker.UpdateProject(c.Request().Context(), identity, projectID, req.Title, req.Description)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, newProjectResponse(project))
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return s.unauthorized(c)
	}
	projectID, ok := pathULID(c, "projectId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}

	if err := s.tracker.DeleteProject(c.Request().Context(), identity, projectID); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
