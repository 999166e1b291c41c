// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

//go:build integration

package integration

import (
	"context"
	"net/http"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/projecttasks/projecttasks/internal/auth"
)

const testPassword = "correct horse battery"

var _ = Describe("Authentication", func() {
	Describe("Register", func() {
		It("persists the user with an argon2id hash", func() {
			email := uniqueEmail("register")
			registerUser(email, testPassword)

			user, err := env.users.GetByEmail(context.Background(), email)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal(email))
			Expect(user.PasswordHash).To(HavePrefix("$argon2id$"))
			Expect(user.PasswordHash).NotTo(ContainSubstring(testPassword))
		})

		It("rejects a duplicate email", func() {
			email := uniqueEmail("duplicate")
			registerUser(email, testPassword)

			rec := doJSON(http.MethodPost, "/auth/register", "", map[string]string{
				"email":    email,
				"password": testPassword,
			})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("email already in use"))
		})

		It("enforces the unique constraint at the database level", func() {
			email := uniqueEmail("constraint")
			registerUser(email, testPassword)

			existing, err := env.users.GetByEmail(context.Background(), email)
			Expect(err).NotTo(HaveOccurred())

			// Insert directly, bypassing the service's pre-check, the way a
			// concurrent registration would.
			dup, err := auth.NewUser(email, existing.PasswordHash)
			Expect(err).NotTo(HaveOccurred())

			err = env.users.Create(context.Background(), dup)
			Expect(err).To(MatchError(auth.ErrDuplicateEmail))
		})
	})

	Describe("Login", func() {
		It("issues a three-segment bearer token", func() {
			email := uniqueEmail("login")
			registerUser(email, testPassword)

			token := loginUser(email, testPassword)
			Expect(strings.Count(token, ".")).To(Equal(2))
		})

		It("rejects a wrong password and an unknown email identically", func() {
			email := uniqueEmail("wrongpass")
			registerUser(email, testPassword)

			wrongPassword := doJSON(http.MethodPost, "/auth/login", "", map[string]string{
				"email":    email,
				"password": "not the password",
			})
			unknownEmail := doJSON(http.MethodPost, "/auth/login", "", map[string]string{
				"email":    uniqueEmail("ghost"),
				"password": testPassword,
			})

			Expect(wrongPassword.Code).To(Equal(http.StatusUnauthorized))
			Expect(unknownEmail.Code).To(Equal(wrongPassword.Code))
			Expect(unknownEmail.Body.String()).To(MatchJSON(wrongPassword.Body.String()))
		})
	})

	Describe("Session resolution", func() {
		It("authenticates protected routes with a fresh token", func() {
			email := uniqueEmail("session")
			registerUser(email, testPassword)
			token := loginUser(email, testPassword)

			rec := doJSON(http.MethodGet, "/projects", token, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("rejects a token whose user has been deleted", func() {
			email := uniqueEmail("deleted")
			registerUser(email, testPassword)
			token := loginUser(email, testPassword)

			user, err := env.users.GetByEmail(context.Background(), email)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.users.Delete(context.Background(), user.ID)).To(Succeed())

			rec := doJSON(http.MethodGet, "/projects", token, nil)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects a tampered token", func() {
			email := uniqueEmail("tampered")
			registerUser(email, testPassword)
			token := loginUser(email, testPassword)

			rec := doJSON(http.MethodGet, "/projects", token+"x", nil)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects an expired token", func() {
			email := uniqueEmail("expired")
			registerUser(email, testPassword)

			user, err := env.users.GetByEmail(context.Background(), email)
			Expect(err).NotTo(HaveOccurred())

			shortLived, err := auth.NewTokenService("integration-test-secret-0123456789", time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			token, err := shortLived.Issue(user.ID, time.Now().Add(-time.Minute))
			Expect(err).NotTo(HaveOccurred())

			rec := doJSON(http.MethodGet, "/projects", token, nil)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
