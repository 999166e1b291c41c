// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// RecommendedSecretBytes is the minimum signing secret length for HS256 that
// does not trigger a startup warning.
const RecommendedSecretBytes = 32

// TokenService issues and validates signed session tokens.
//
// Tokens are self-contained JWTs (HS256) carrying sub/iat/exp/jti claims.
// Validity is a pure function of signature and expiry; there is no
// server-side session state and no revocation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService.
// An empty secret is a fatal configuration error, not a per-request one.
// The TTL is the lifetime of every issued token.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("signing secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").
			With("ttl", ttl.String()).
			Errorf("token TTL must be positive")
	}
	if len(secret) < RecommendedSecretBytes {
		slog.Warn("token signing secret is shorter than recommended",
			"length", len(secret),
			"recommended", RecommendedSecretBytes,
		)
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue produces a signed token for the user, valid from now until now+TTL.
// The jti claim carries a fresh ULID so two tokens for the same user are never
// identical, even within the same second.
func (s *TokenService) Issue(userID ulid.ULID, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        ulid.Make().String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return signed, nil
}

// Validate verifies the token's signature and expiry and returns the subject
// user ID. Failures map to exactly one of ErrTokenMalformed, ErrTokenExpired,
// or ErrTokenUnsupported; callers deny access for all three.
//
// Expiry is inclusive of the boundary: a token is already expired at now == exp.
// Signature comparison inside jwt/v5 is constant-time (HMAC).
func (s *TokenService) Validate(token string, now time.Time) (ulid.ULID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrTokenUnsupported
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenUnsupported):
			return ulid.ULID{}, oops.Code("TOKEN_UNSUPPORTED").Wrap(ErrTokenUnsupported)
		case errors.Is(err, jwt.ErrTokenExpired):
			return ulid.ULID{}, oops.Code("TOKEN_EXPIRED").Wrap(ErrTokenExpired)
		default:
			return ulid.ULID{}, oops.Code("TOKEN_MALFORMED").Wrap(ErrTokenMalformed)
		}
	}

	userID, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code("TOKEN_MALFORMED").
			With("subject", claims.Subject).
			Wrap(ErrTokenMalformed)
	}
	return userID, nil
}
