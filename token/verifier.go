// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package token

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/golang-jwt/jwt/v5"
)

// RevocationChecker reports whether a specific token has been revoked.
// Implementations: HTTPRevocationChecker in this package and
// postgres.RevocationStore.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Verifier validates signed bearer tokens against immutable key material.
//
// All state is read-only after construction, so a single Verifier may be
// shared by any number of concurrent requests without locking.
type Verifier struct {
	parser      *jwt.Parser
	key         any
	keySet      *KeySet
	revocations RevocationChecker
	algorithms  []string
	now         func() time.Time
}

// VerifierOption customises Verifier construction.
type VerifierOption func(*Verifier)

// WithNow overrides the clock used for expiry checks. Intended for tests.
func WithNow(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

// WithKeySet makes the Verifier resolve verification keys by the token's
// "kid" header through the given key set instead of a single local key.
func WithKeySet(keySet *KeySet) VerifierOption {
	return func(v *Verifier) { v.keySet = keySet }
}

// WithRevocationChecker makes every successful verification additionally
// check the token against a revocation list. A revoked token is rejected
// exactly like an expired one.
func WithRevocationChecker(checker RevocationChecker) VerifierOption {
	return func(v *Verifier) { v.revocations = checker }
}

// NewVerifier constructs a Verifier from the given key configuration.
//
// The accepted algorithm set and the key material are fixed here, once, and
// never re-read; rotating keys means constructing a new Verifier.
func NewVerifier(cfg KeyConfig, opts ...VerifierOption) (*Verifier, error) {
	v := &Verifier{
		algorithms: cfg.Algorithms,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	if len(cfg.Algorithms) == 0 {
		return nil, ErrNoAlgorithms
	}

	if v.keySet == nil {
		key, err := loadVerificationKey(cfg)
		if err != nil {
			return nil, err
		}
		v.key = key
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(cfg.Algorithms),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	v.parser = jwt.NewParser(parserOpts...)

	return v, nil
}

// Verify validates raw and returns the authenticated identity.
//
// Every failure mode — malformed token, unsupported algorithm, bad
// signature, unknown key ID, expired or not-yet-valid claims, revoked
// token — is terminal and surfaces as apperrors.KindUnauthenticated.
// An expired token is rejected regardless of its signature.
func (v *Verifier) Verify(ctx context.Context, raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, apperrors.NewUnauthenticated("empty token")
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if v.keySet != nil {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, errors.New("token has no key ID")
			}
			return v.keySet.Key(ctx, kid)
		}
		return v.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperrors.NewUnauthenticated("token is expired")
		}
		return Identity{}, apperrors.NewUnauthenticated("token is invalid")
	}

	// exp must be strictly after iat; a token violating that never passed
	// through the issuer and is rejected outright.
	if claims.IssuedAt != nil && claims.ExpiresAt != nil &&
		!claims.ExpiresAt.Time.After(claims.IssuedAt.Time) {
		return Identity{}, apperrors.NewUnauthenticated("token is invalid")
	}

	if v.revocations != nil && claims.TokenID != "" {
		revoked, err := v.revocations.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return Identity{}, apperrors.Classify(ctx, err)
		}
		if revoked {
			return Identity{}, apperrors.NewUnauthenticated("token has been revoked")
		}
	}

	return identityFromClaims(claims), nil
}
