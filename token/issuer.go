// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidTokenDuration is returned when an Issuer is constructed with a
// non-positive time-to-live, which would violate the exp > iat invariant.
var ErrInvalidTokenDuration = errors.New("token duration must be positive")

// Issuer signs new tokens with the configured key material.
//
// Like the Verifier, an Issuer is immutable after construction and safe for
// concurrent use.
type Issuer struct {
	method jwt.SigningMethod
	key    any
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs an Issuer signing with the first algorithm of cfg.
// ttl controls how long issued tokens remain valid and must be positive.
func NewIssuer(cfg KeyConfig, ttl time.Duration) (*Issuer, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTokenDuration
	}
	if len(cfg.Algorithms) == 0 {
		return nil, ErrNoAlgorithms
	}

	method := jwt.GetSigningMethod(cfg.Algorithms[0])
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", cfg.Algorithms[0])
	}

	key, err := loadSigningKey(cfg)
	if err != nil {
		return nil, err
	}

	return &Issuer{
		method: method,
		key:    key,
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a new token for subject carrying the given scoped claims.
//
// The token is stamped with a fresh token ID (tid), the configured issuer,
// iat = now and exp = now + ttl.
func (i *Issuer) Issue(subject string, scopes map[string]string) (string, error) {
	if subject == "" {
		return "", errors.New("empty subject")
	}

	now := i.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		TokenID: uuid.NewString(),
		Scopes:  scopes,
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}
