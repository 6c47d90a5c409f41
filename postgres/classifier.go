// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package postgres

import (
	"context"
	"errors"
	"net"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Classify maps a raw database error into the apperrors taxonomy.
//
// An error that already is (or wraps) an *apperrors.Error passes through
// unchanged, so business logic may pre-classify (e.g. its own NotFound with
// a proper resource kind) without this layer overriding it.
//
// Driver-level mapping:
//   - pgx.ErrNoRows → NotFound
//   - integrity constraint violations (class 23) → Conflict
//   - serialization failure, deadlock, transaction rollback (class 40)
//     → retryable Conflict
//   - connection exceptions (class 08), cannot-connect-now (57P03) and
//     net errors → retryable Upstream
//   - anything unrecognised → Internal (logged once with a reference)
//
// See https://www.postgresql.org/docs/current/errcodes-appendix.html for the
// full list of PostgreSQL error codes.
func Classify(ctx context.Context, err error) *apperrors.Error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("requested record", "")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPgError(ctx, pgErr)
	}

	// transient network failures between the service and the database
	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperrors.NewUpstream("database connection failure", err).MarkRetryable()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewUpstream("database operation timed out", err).MarkRetryable()
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.NewUpstream("database operation cancelled", err)
	}

	// Default: treat unrecognised errors as internal.
	return apperrors.NewInternal(ctx, err)
}

// classifyPgError maps a *pgconn.PgError by its PostgreSQL error code.
func classifyPgError(ctx context.Context, pgErr *pgconn.PgError) *apperrors.Error {
	switch pgErr.Code {
	// Class 40 — transaction rollback: safe to re-run the unit of work
	case pgerrcode.TransactionRollback, // 40000
		pgerrcode.SerializationFailure, // 40001
		pgerrcode.DeadlockDetected:     // 40P01
		return apperrors.NewConflict("concurrent update conflict").MarkRetryable()
	}

	switch pgErr.Code {
	// Class 08 — connection exceptions
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.SQLClientUnableToEstablishSQLConnection,
		pgerrcode.SQLServerRejectedEstablishmentOfSQLConnection:
		return apperrors.NewUpstream("database connection failure", pgErr).MarkRetryable()

	// Class 57 — operator intervention
	case pgerrcode.CannotConnectNow: // 57P03
		return apperrors.NewUpstream("database is not accepting connections", pgErr).MarkRetryable()
	}

	switch pgErr.Code {
	// Class 23 — integrity constraint violations
	case pgerrcode.IntegrityConstraintViolation,
		pgerrcode.RestrictViolation,
		pgerrcode.NotNullViolation,
		pgerrcode.ForeignKeyViolation,
		pgerrcode.UniqueViolation,
		pgerrcode.CheckViolation,
		pgerrcode.ExclusionViolation:
		return apperrors.NewConflict("conflicting data state")
	}

	// Default: treat unrecognised codes as internal.
	return apperrors.NewInternal(ctx, pgErr)
}
