// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

//go:build integration

package integration

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

type projectJSON struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	TaskCount          int    `json:"taskCount"`
	CompletedTaskCount int    `json:"completedTaskCount"`
}

type taskJSON struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"projectId"`
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"dueDate"`
	Completed bool       `json:"completed"`
}

func createProject(token, title string) projectJSON {
	rec := doJSON(http.MethodPost, "/projects", token, map[string]string{
		"title": title,
	})
	Expect(rec.Code).To(Equal(http.StatusCreated), "create project failed: %s", rec.Body.String())

	var project projectJSON
	decode(rec, &project)
	return project
}

func createTask(token, projectID, title string) taskJSON {
	rec := doJSON(http.MethodPost, "/projects/"+projectID+"/tasks", token, map[string]string{
		"title": title,
	})
	Expect(rec.Code).To(Equal(http.StatusCreated), "create task failed: %s", rec.Body.String())

	var task taskJSON
	decode(rec, &task)
	return task
}

var _ = Describe("Projects and tasks", func() {
	var token string

	BeforeEach(func() {
		email := uniqueEmail("tracker")
		registerUser(email, testPassword)
		token = loginUser(email, testPassword)
	})

	It("runs the full project lifecycle", func() {
		project := createProject(token, "Home renovation")

		// Two tasks, one completed.
		first := createTask(token, project.ID, "Buy paint")
		createTask(token, project.ID, "Sand the floors")

		completed := true
		rec := doJSON(http.MethodPut, "/projects/"+project.ID+"/tasks/"+first.ID, token, map[string]any{
			"title":     first.Title,
			"completed": &completed,
		})
		Expect(rec.Code).To(Equal(http.StatusOK))

		// The list reports counts computed by the database.
		rec = doJSON(http.MethodGet, "/projects", token, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var summaries []projectJSON
		decode(rec, &summaries)
		Expect(summaries).To(HaveLen(1))
		Expect(summaries[0].ID).To(Equal(project.ID))
		Expect(summaries[0].TaskCount).To(Equal(2))
		Expect(summaries[0].CompletedTaskCount).To(Equal(1))

		// Update and re-read.
		rec = doJSON(http.MethodPut, "/projects/"+project.ID, token, map[string]string{
			"title":       "Home renovation 2026",
			"description": "Kitchen first",
		})
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = doJSON(http.MethodGet, "/projects/"+project.ID, token, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var got projectJSON
		decode(rec, &got)
		Expect(got.Title).To(Equal("Home renovation 2026"))
		Expect(got.Description).To(Equal("Kitchen first"))
	})

	It("persists task due dates through the database", func() {
		project := createProject(token, "Scheduling")
		due := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)

		rec := doJSON(http.MethodPost, "/projects/"+project.ID+"/tasks", token, map[string]any{
			"title":   "File taxes",
			"dueDate": due,
		})
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var created taskJSON
		decode(rec, &created)

		rec = doJSON(http.MethodGet, "/projects/"+project.ID+"/tasks/"+created.ID, token, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var got taskJSON
		decode(rec, &got)
		Expect(got.DueDate).NotTo(BeNil())
		Expect(got.DueDate.Equal(due)).To(BeTrue(), "stored %s, want %s", got.DueDate, due)
	})

	It("deletes tasks with their project through the cascade", func() {
		project := createProject(token, "Doomed project")
		task := createTask(token, project.ID, "Doomed task")

		rec := doJSON(http.MethodDelete, "/projects/"+project.ID, token, nil)
		Expect(rec.Code).To(Equal(http.StatusNoContent))

		var count int
		err := env.store.Pool().QueryRow(context.Background(),
			`SELECT COUNT(*) FROM tasks WHERE id = $1`, task.ID).Scan(&count)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(BeZero(), "task row should be gone after project delete")
	})

	Describe("ownership isolation", func() {
		var otherToken string

		BeforeEach(func() {
			email := uniqueEmail("stranger")
			registerUser(email, testPassword)
			otherToken = loginUser(email, testPassword)
		})

		It("hides projects from other users", func() {
			project := createProject(token, "Private project")

			rec := doJSON(http.MethodGet, "/projects/"+project.ID, otherToken, nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))

			rec = doJSON(http.MethodGet, "/projects", otherToken, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var summaries []projectJSON
			decode(rec, &summaries)
			Expect(summaries).To(BeEmpty())
		})

		It("blocks writes to other users' projects", func() {
			project := createProject(token, "Untouchable")
			task := createTask(token, project.ID, "Keep out")

			rec := doJSON(http.MethodPut, "/projects/"+project.ID, otherToken, map[string]string{
				"title": "Hijacked",
			})
			Expect(rec.Code).To(Equal(http.StatusNotFound))

			rec = doJSON(http.MethodDelete, "/projects/"+project.ID+"/tasks/"+task.ID, otherToken, nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))

			rec = doJSON(http.MethodGet, "/projects/"+project.ID+"/tasks/"+task.ID, token, nil)
			Expect(rec.Code).To(Equal(http.StatusOK), "owner access must survive the attempts")
		})

		It("keeps tasks contained in their project", func() {
			mine := createProject(token, "Mine")
			other := createProject(token, "Also mine")
			task := createTask(token, mine.ID, "Contained")

			rec := doJSON(http.MethodGet, "/projects/"+other.ID+"/tasks/"+task.ID, token, nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
