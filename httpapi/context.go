// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpapi

import (
	"context"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/MKhiriev/go-api-kit/postgres"
	"github.com/MKhiriev/go-api-kit/token"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// RequestContextCtxKey is the key under which the per-request RequestContext
// is stored. It is populated by the Auth and OptionalAuth middleware and read
// back with GetRequestContextFromContext.
var RequestContextCtxKey = contextKey("requestContext")

// RequestContext aggregates everything a business handler needs from the
// transport layer: the authenticated caller (nil on unauthenticated routes)
// and a borrowed database handle.
//
// A RequestContext is built once per inbound request and is immutable for
// the lifetime of that request. Handlers must not retain it past the request
// it was built for; the DB handle is shared and outlives the request, but
// the context value itself does not.
type RequestContext struct {
	// Identity is the verified caller identity, or nil when the route does
	// not require authentication and no credential was presented.
	Identity *token.Identity

	// DB is the pooled, retrying database access layer of the host service.
	DB *postgres.DB
}

// WithRequestContext returns a copy of ctx carrying rc.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, RequestContextCtxKey, rc)
}

// GetRequestContextFromContext retrieves the RequestContext from the context.
//
// Returns the request context and an ok flag:
//   - ok == true  — value is found and has the correct type
//   - ok == false — value is missing (the request did not pass through the
//     Auth or OptionalAuth middleware)
func GetRequestContextFromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(RequestContextCtxKey).(*RequestContext)
	return rc, ok
}

// RequireIdentity returns the authenticated identity stored in ctx, or an
// unauthenticated classification when the request carries none. Handlers on
// routes behind OptionalAuth use it to gate the parts that do need a caller.
func RequireIdentity(ctx context.Context) (*token.Identity, error) {
	rc, ok := GetRequestContextFromContext(ctx)
	if !ok || rc.Identity == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	return rc.Identity, nil
}
