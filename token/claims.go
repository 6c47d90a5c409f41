// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim schema embedded in every token issued or verified by
// this package. It extends the registered JWT claims with a per-token ID
// used for revocation and a flat map of scoped custom claims.
type Claims struct {
	jwt.RegisteredClaims

	// TokenID identifies this specific token. It is the key used when
	// checking the token against a revocation list.
	TokenID string `json:"tid,omitempty"`

	// Scopes holds the custom scoped claims granted to the bearer,
	// keyed by claim name.
	Scopes map[string]string `json:"scopes,omitempty"`
}

// Identity is the authenticated caller extracted from a verified token.
//
// It is immutable once constructed, owned by the request it was built for,
// and never persisted.
type Identity struct {
	// Subject is the stable identifier of the authenticated principal.
	Subject string

	// TokenID is the ID of the token the identity was derived from.
	TokenID string

	// IssuedAt is when the token was issued.
	IssuedAt time.Time

	// ExpiresAt is when the token stops being valid.
	ExpiresAt time.Time

	// Scopes holds the custom scoped claims carried by the token.
	Scopes map[string]string
}

// identityFromClaims builds the immutable Identity from verified claims.
// The scopes map is copied so the identity cannot alias parser-owned state.
func identityFromClaims(claims *Claims) Identity {
	identity := Identity{
		Subject: claims.Subject,
		TokenID: claims.TokenID,
	}

	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	if len(claims.Scopes) > 0 {
		identity.Scopes = make(map[string]string, len(claims.Scopes))
		for name, value := range claims.Scopes {
			identity.Scopes[name] = value
		}
	}

	return identity
}
