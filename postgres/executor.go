// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package postgres

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/MKhiriev/go-api-kit/logger"
	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"
)

// UnitOfWork is a caller-supplied operation run against a leased connection
// or transaction. It may be invoked several times under the retry policy, so
// it must not capture side effects of earlier attempts.
type UnitOfWork func(ctx context.Context, q Querier) error

// Execute runs the unit of work against the pool, classifying any failure
// and re-running the whole unit on retryable errors with exponential
// backoff, up to the configured attempt limit.
//
// Attempts are strictly sequential. Non-retryable errors surface
// immediately; exhausting the attempt budget surfaces the last classified
// error unchanged. Cancellation of ctx during a backoff delay abandons the
// operation.
func (db *DB) Execute(ctx context.Context, unit UnitOfWork) error {
	return db.withRetry(ctx, func(ctx context.Context) error {
		if err := unit(ctx, db.pool); err != nil {
			return Classify(ctx, err)
		}
		return nil
	})
}

// Transaction is Execute with transactional boundaries: a transaction is
// begun before the unit of work runs and committed only if the unit returns
// nil. Any error rolls the transaction back before classification and
// possible retry, so a retried unit never observes partial writes of an
// earlier attempt. A unit that committed successfully is never re-run.
func (db *DB) Transaction(ctx context.Context, unit UnitOfWork) error {
	return db.withRetry(ctx, func(ctx context.Context) error {
		tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return Classify(ctx, err)
		}

		if err := unit(ctx, tx); err != nil {
			_ = tx.Rollback(ctx)
			return Classify(ctx, err)
		}

		if err := tx.Commit(ctx); err != nil {
			_ = tx.Rollback(ctx)
			return Classify(ctx, err)
		}

		return nil
	})
}

// withRetry drives one attempt function under the configured RetryPolicy.
// The attempt function returns pre-classified errors; only those flagged
// retryable are re-attempted.
func (db *DB) withRetry(ctx context.Context, attempt func(ctx context.Context) error) error {
	policy := db.cfg.Retry

	var backoff retry.Backoff = retry.NewExponential(policy.base())
	if policy.Jitter > 0 {
		backoff = retry.WithJitter(policy.Jitter, backoff)
	}
	backoff = retry.WithMaxRetries(uint64(policy.attempts()-1), backoff)

	attemptNo := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptNo++

		err := attempt(ctx)
		if err == nil {
			return nil
		}

		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Retryable() {
			logger.FromContext(ctx).Warn().
				Err(appErr).
				Int("attempt", attemptNo).
				Msg("retryable database error")
			return retry.RetryableError(err)
		}

		return err
	})
}
