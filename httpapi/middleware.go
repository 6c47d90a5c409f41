// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpapi

import (
	"context"

	"github.com/MKhiriev/go-api-kit/logger"
	"github.com/MKhiriev/go-api-kit/postgres"
	"github.com/MKhiriev/go-api-kit/token"
)

// TokenVerifier validates a raw bearer credential and yields the caller's
// identity. *token.Verifier satisfies it; tests may substitute their own.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (token.Identity, error)
}

// Middleware bundles the dependencies shared by the transport middleware:
// the token verifier, the database layer handed to every RequestContext,
// and the base logger from which request-scoped loggers are derived.
type Middleware struct {
	verifier TokenVerifier
	db       *postgres.DB
	log      *logger.Logger
}

// NewMiddleware constructs the middleware set. db may be nil for services
// that do not use the database layer; RequestContext.DB is then nil too.
func NewMiddleware(verifier TokenVerifier, db *postgres.DB, log *logger.Logger) *Middleware {
	return &Middleware{
		verifier: verifier,
		db:       db,
		log:      log,
	}
}
