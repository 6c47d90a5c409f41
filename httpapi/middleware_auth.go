// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpapi

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/MKhiriev/go-api-kit/logger"
)

// Auth is an HTTP middleware that enforces bearer-token authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it through the configured TokenVerifier and — on success — stores
// a RequestContext carrying the verified identity in the request context
// before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized in the following
// cases:
//   - The "Authorization" header is absent ([ErrEmptyAuthorizationHeader]).
//   - The header value cannot be parsed as a bearer token
//     ([ErrInvalidAuthorizationHeader] or [ErrEmptyToken]).
//   - The token is expired, malformed, revoked or otherwise fails
//     verification.
//
// All rejection events are logged using the context-scoped logger obtained
// via [logger.FromRequest], and the response body follows the uniform error
// format.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			RespondError(w, r, apperrors.NewUnauthenticated(ErrEmptyAuthorizationHeader.Error()))
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			RespondError(w, r, apperrors.NewUnauthenticated(err.Error()))
			return
		}

		ctx := r.Context()
		identity, err := m.verifier.Verify(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("token verification failed")
			RespondError(w, r, err)
			return
		}

		// Store the verified identity in the context so that downstream
		// handlers can retrieve it without re-parsing the token.
		ctx = WithRequestContext(ctx, &RequestContext{Identity: &identity, DB: m.db})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth behaves like Auth on requests that present an "Authorization"
// header, but lets requests without one through with an anonymous
// RequestContext (nil Identity). A credential that is present but invalid is
// still rejected; "optional" never means "unchecked".
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	authed := m.Auth(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			ctx := WithRequestContext(r.Context(), &RequestContext{DB: m.db})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		authed.ServeHTTP(w, r)
	})
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value.
//
// The header is expected to follow the standard format:
//
//	Authorization: <scheme> <token>
//
// It returns the following sentinel errors:
//   - [ErrInvalidAuthorizationHeader] — if the header contains fewer than
//     two space-separated parts (i.e. the token is missing entirely).
//   - [ErrEmptyToken] — if the second part exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
