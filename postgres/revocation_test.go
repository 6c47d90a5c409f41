package postgres

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocationStore_Revoke(t *testing.T) {
	db, mock := newTestDB(t, fastRetryConfig(1))
	store := NewRevocationStore(db)

	expiresAt := time.Now().Add(time.Hour)
	mock.ExpectExec("INSERT INTO revoked_tokens").
		WithArgs("tid-1", expiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Revoke(nopCtx(), "tid-1", expiresAt)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationStore_RevokeTwiceIsNoOp(t *testing.T) {
	db, mock := newTestDB(t, fastRetryConfig(1))
	store := NewRevocationStore(db)

	expiresAt := time.Now().Add(time.Hour)
	// ON CONFLICT DO NOTHING: the second insert touches no rows and
	// still succeeds
	mock.ExpectExec("INSERT INTO revoked_tokens").
		WithArgs("tid-1", expiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err := store.Revoke(nopCtx(), "tid-1", expiresAt)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationStore_IsRevoked_Hit(t *testing.T) {
	db, mock := newTestDB(t, fastRetryConfig(1))
	store := NewRevocationStore(db)

	mock.ExpectQuery("SELECT 1 FROM revoked_tokens").
		WithArgs("tid-1").
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

	revoked, err := store.IsRevoked(nopCtx(), "tid-1")

	require.NoError(t, err)
	assert.True(t, revoked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationStore_IsRevoked_Miss(t *testing.T) {
	db, mock := newTestDB(t, fastRetryConfig(1))
	store := NewRevocationStore(db)

	mock.ExpectQuery("SELECT 1 FROM revoked_tokens").
		WithArgs("tid-unknown").
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}))

	revoked, err := store.IsRevoked(nopCtx(), "tid-unknown")

	require.NoError(t, err)
	assert.False(t, revoked, "a token missing from the list is not revoked")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationStore_PurgeExpired(t *testing.T) {
	db, mock := newTestDB(t, fastRetryConfig(1))
	store := NewRevocationStore(db)

	now := time.Now()
	mock.ExpectExec("DELETE FROM revoked_tokens").
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	purged, err := store.PurgeExpired(nopCtx(), now)

	require.NoError(t, err)
	assert.Equal(t, int64(4), purged)
	require.NoError(t, mock.ExpectationsWereMet())
}
