// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/jackc/pgx/v5"
)

// RevocationStore is the database-backed revocation list for issued tokens.
// It satisfies token.RevocationChecker, so a Verifier can be pointed at it
// directly, and all of its statements run through the retrying executor.
//
// Schema: see the revoked_tokens migration shipped with this module.
type RevocationStore struct {
	db      *DB
	builder sq.StatementBuilderType
}

// NewRevocationStore constructs a RevocationStore on top of db.
func NewRevocationStore(db *DB) *RevocationStore {
	return &RevocationStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Revoke adds the token to the revocation list. Revoking an already revoked
// token is a no-op, not a conflict.
//
// expiresAt is the token's own expiry; it lets PurgeExpired drop entries
// that no verifier could accept anyway.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	query, args, err := s.builder.
		Insert("revoked_tokens").
		Columns("token_id", "expires_at").
		Values(tokenID, expiresAt).
		Suffix("ON CONFLICT (token_id) DO NOTHING").
		ToSql()
	if err != nil {
		return apperrors.NewInternal(ctx, err)
	}

	return s.db.Execute(ctx, func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, query, args...)
		return err
	})
}

// IsRevoked implements token.RevocationChecker.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	query, args, err := s.builder.
		Select("1").
		From("revoked_tokens").
		Where(sq.Eq{"token_id": tokenID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, apperrors.NewInternal(ctx, err)
	}

	var revoked bool
	err = s.db.Execute(ctx, func(ctx context.Context, q Querier) error {
		var one int
		if err := q.QueryRow(ctx, query, args...).Scan(&one); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				revoked = false
				return nil
			}
			return err
		}
		revoked = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return revoked, nil
}

// PurgeExpired removes revocation entries whose tokens expired before now
// and returns how many were dropped. Intended for a periodic housekeeping
// job in the consuming service.
func (s *RevocationStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := s.builder.
		Delete("revoked_tokens").
		Where(sq.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, apperrors.NewInternal(ctx, err)
	}

	var purged int64
	err = s.db.Execute(ctx, func(ctx context.Context, q Querier) error {
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		purged = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return purged, nil
}
