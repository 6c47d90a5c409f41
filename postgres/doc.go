// Package postgres is the pooled, retrying database access layer shared by
// services built on go-api-kit.
//
// It wraps a pgx connection pool — it does not implement pooling itself —
// and adds the two behaviours every consuming service needs but none should
// reimplement: classification of driver errors into the apperrors taxonomy,
// and bounded retry of transient failures around caller-supplied units of
// work.
//
// A unit of work must be expressible as a restartable function of a Querier:
// on a retryable classified error the whole unit is re-run from scratch, so
// units wrapping multiple writes must either be naturally idempotent or use
// Transaction, which rolls back before any retry. The executor never
// retries after a successful commit.
package postgres
