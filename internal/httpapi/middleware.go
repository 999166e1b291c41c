// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/projecttasks/projecttasks/internal/auth"
)

// identityKey is the echo context key holding the resolved auth.Identity.
const identityKey = "identity"

// tracerName identifies this instrumentation scope.
const tracerName = "github.com/projecttasks/projecttasks/internal/httpapi"

// observe wraps each request in a trace span and records request metrics.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx, span := otel.Tracer(tracerName).Start(req.Context(), req.Method+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
		)
		defer span.End()
		c.SetRequest(req.WithContext(ctx))

		start := time.Now()
		err := next(c)
		if err != nil {
			// Let echo's error handler run so the response status is final
			// before it is recorded.
			c.Error(err)
		}

		if s.metrics != nil {
			s.metrics.RecordRequest(
				req.Method,
				c.Path(),
				strconv.Itoa(c.Response().Status),
				time.Since(start),
			)
		}
		return nil
	}
}

// cors matches the Origin header against the configured glob patterns and
// answers preflight requests. Requests without an Origin header pass through
// untouched.
func (s *Server) cors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		origin := c.Request().Header.Get(echo.HeaderOrigin)
		if origin == "" {
			return next(c)
		}

		allowed := false
		for _, g := range s.origins {
			if g.Match(origin) {
				allowed = true
				break
			}
		}

		if allowed {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			h.Add(echo.HeaderVary, echo.HeaderOrigin)
		}

		if c.Request().Method == http.MethodOptions {
			if !allowed {
				return c.NoContent(http.StatusForbidden)
			}
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
			h.Set(echo.HeaderAccessControlAllowHeaders, "Authorization, Content-Type")
			return c.NoContent(http.StatusNoContent)
		}

		return next(c)
	}
}

// authenticate resolves the bearer token to an identity before any handler
// runs. Every failure is rejected with the same 401 so callers cannot probe
// which part of the credential was wrong.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return s.unauthorized(c)
		}

		identity, err := s.auth.Resolve(c.Request().Context(), token)
		if err != nil {
			return s.writeError(c, err)
		}

		c.Set(identityKey, identity)
		return next(c)
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// identityFrom returns the identity stored by the authenticate middleware.
func identityFrom(c echo.Context) (auth.Identity, bool) {
	identity, ok := c.Get(identityKey).(auth.Identity)
	return identity, ok && !identity.IsZero()
}
