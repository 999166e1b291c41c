// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/projecttasks/projecttasks/internal/tracker"
)

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   *bool      `json:"completed"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newTaskResponse(t *tracker.Task) taskResponse {
	return taskResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (s *Server) handleListTasks(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return s.unauthorized(c)
	}
	projectID, ok := pathULID(c, "projectId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}

	tasks, err := s.tracker.ListTasks(c.Request().Context(), identity, projectID)
	if err != nil {
		return s.writeError(c, err)
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return s.unauthorized(c)
	}
	projectID, ok := pathULID(c, "projectId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	task, err := s.tracker.CreateTask(c.Request().Context(), identity, projectID, req.Title, req.Description, req.DueDate)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (s *Server) handleGetTask(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return s.unauthorized(c)
	}
	projectID, ok := pathULID(c, "projectId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}
	taskID, ok := pathULID(c, "taskId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}

	task, err := s.tracker.GetTask(c.Request().Context(), identity, projectID, taskID)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return s.unauthorized(c)
	}
	projectID, ok := pathULID(c, "projectId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}
	taskID, ok := pathULID(c, "taskId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	task, err := s.tracker.UpdateTask(c.Request().Context(), identity, projectID, taskID, tracker.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return s.unauthorized(c)
	}
	projectID, ok := pathULID(c, "projectId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}
	taskID, ok := pathULID(c, "taskId")
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}

	if err := s.tracker.DeleteTask(c.Request().Context(), identity, projectID, taskID); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
