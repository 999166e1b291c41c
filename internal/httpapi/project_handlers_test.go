// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package httpapi

import (
	"net/http"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProject(t *testing.T, h http.Handler, token, title, description string) projectResponse {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/projects", token, map[string]string{
		"title":       title,
		"description": description,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "create project failed: %s", rec.Body.String())

	var resp projectResponse
	decodeJSON(t, rec, &resp)
	return resp
}

func TestProjectCRUD(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()
	register(t, h, testEmail, testPassword)
	token := login(t, h, testEmail, testPassword)

	t.Run("create returns the project", func(t *testing.T) {
		project := createProject(t, h, token, "Home renovation", "Kitchen first")
		assert.NotEmpty(t, project.ID)
		assert.Equal(t, "Home renovation", project.Title)
		assert.Equal(t, "Kitchen first", project.Description)
		assert.False(t, project.CreatedAt.IsZero())
	})

	t.Run("get returns the project", func(t *testing.T) {
		created := createProject(t, h, token, "Reading list", "")

		rec := doJSON(t, h, http.MethodGet, "/projects/"+created.ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got projectResponse
		decodeJSON(t, rec, &got)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Reading list", got.Title)
	})

	t.Run("list includes task counts", func(t *testing.T) {
		project := createProject(t, h, token, "Garden", "")
		createTask(t, h, token, project.ID, "Plant tomatoes", "")
		done := createTask(t, h, token, project.ID, "Buy seeds", "")

		completed := true
		rec := doJSON(t, h, http.MethodPut, "/projects/"+project.ID+"/tasks/"+done.ID, token, map[string]any{
			"title":     done.Title,
			"completed": &completed,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, h, http.MethodGet, "/projects", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summaries []projectSummaryResponse
		decodeJSON(t, rec, &summaries)

		var found bool
		for _, summary := range summaries {
			if summary.ID == project.ID {
				found = true
				assert.Equal(t, 2, summary.TaskCount)
				assert.Equal(t, 1, summary.CompletedTaskCount)
			}
		}
		assert.True(t, found, "created project missing from list")
	})

	t.Run("update persists changes", func(t *testing.T) {
		created := createProject(t, h, token, "Old title", "")

		rec := doJSON(t, h, http.MethodPut, "/projects/"+created.ID, token, map[string]string{
			"title":       "New title",
			"description": "New description",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated projectResponse
		decodeJSON(t, rec, &updated)
		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, "New description", updated.Description)
	})

	t.Run("delete removes the project", func(t *testing.T) {
		created := createProject(t, h, token, "Short lived", "")

		rec := doJSON(t, h, http.MethodDelete, "/projects/"+created.ID, token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, h, http.MethodGet, "/projects/"+created.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/projects", token, map[string]string{
			"title": "",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProjectIsolation(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()
	register(t, h, testEmail, testPassword)
	register(t, h, "bob@example.com", testPassword)
	aliceToken := login(t, h, testEmail, testPassword)
	bobToken := login(t, h, "bob@example.com", testPassword)

	project := createProject(t, h, aliceToken, "Alice's project", "")

	t.Run("someone else's project reads as not found", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/projects/"+project.ID, bobToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("not-owned and absent are indistinguishable", func(t *testing.T) {
		notOwned := doJSON(t, h, http.MethodGet, "/projects/"+project.ID, bobToken, nil)
		absent := doJSON(t, h, http.MethodGet, "/projects/"+ulid.Make().String(), bobToken, nil)

		assert.Equal(t, absent.Code, notOwned.Code)
		assert.JSONEq(t, absent.Body.String(), notOwned.Body.String())
	})

	t.Run("update is blocked", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, "/projects/"+project.ID, bobToken, map[string]string{
			"title": "Hijacked",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = doJSON(t, h, http.MethodGet, "/projects/"+project.ID, aliceToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var got projectResponse
		decodeJSON(t, rec, &got)
		assert.Equal(t, "Alice's project", got.Title)
	})

	t.Run("delete is blocked", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodDelete, "/projects/"+project.ID, bobToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = doJSON(t, h, http.MethodGet, "/projects/"+project.ID, aliceToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("list only shows own projects", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/projects", bobToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summaries []projectSummaryResponse
		decodeJSON(t, rec, &summaries)
		assert.Empty(t, summaries)
	})

	t.Run("malformed project id reads as not found", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/projects/not-a-ulid", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
