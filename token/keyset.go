// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package token

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"sync"

	"github.com/go-resty/resty/v2"
)

// KeySet is a cache of public verification keys, keyed by key ID, populated
// from a JWKS endpoint.
//
// Lookups take a read lock; a miss triggers a refresh of the whole set from
// the endpoint before the lookup is retried once. A key ID that is still
// unknown after a refresh is treated as a verification failure by the
// caller, not retried again.
type KeySet struct {
	endpoint string
	client   *resty.Client

	mu   sync.RWMutex
	keys map[string]any
}

// NewKeySet constructs a KeySet served from the given JWKS endpoint.
// The cache starts empty; the first verification triggers the first fetch.
func NewKeySet(endpoint string, client *resty.Client) *KeySet {
	return &KeySet{
		endpoint: endpoint,
		client:   client,
		keys:     make(map[string]any),
	}
}

// Key returns the public key for kid, refreshing the set from the endpoint
// once if the kid is not cached.
func (s *KeySet) Key(ctx context.Context, kid string) (any, error) {
	s.mu.RLock()
	key, ok := s.keys[kid]
	s.mu.RUnlock()
	if ok {
		return key, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	key, ok = s.keys[kid]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown key ID %q", kid)
	}

	return key, nil
}

// Refresh fetches the JWKS document and replaces the cached key set.
func (s *KeySet) Refresh(ctx context.Context) error {
	var document struct {
		Keys []jwkEntry `json:"keys"`
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&document).
		Get(s.endpoint)
	if err != nil {
		return fmt.Errorf("fetching JWKS: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetching JWKS: endpoint returned %s", resp.Status())
	}

	keys := make(map[string]any, len(document.Keys))
	for _, entry := range document.Keys {
		key, err := entry.publicKey()
		if err != nil {
			return fmt.Errorf("parsing JWK %q: %w", entry.Kid, err)
		}
		keys[entry.Kid] = key
	}

	s.mu.Lock()
	s.keys = keys
	s.mu.Unlock()

	return nil
}

// jwkEntry is one key of a JWKS document, covering the EC and RSA key types
// this library verifies with.
type jwkEntry struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg,omitempty"`
	Use string `json:"use,omitempty"`

	// EC parameters
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`

	// RSA parameters
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`
}

func (e jwkEntry) publicKey() (any, error) {
	switch e.Kty {
	case "EC":
		return e.ecPublicKey()
	case "RSA":
		return e.rsaPublicKey()
	default:
		return nil, fmt.Errorf("unsupported key type %q", e.Kty)
	}
}

func (e jwkEntry) ecPublicKey() (*ecdsa.PublicKey, error) {
	var curve elliptic.Curve
	switch e.Crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("unsupported curve %q", e.Crv)
	}

	x, err := base64.RawURLEncoding.DecodeString(e.X)
	if err != nil {
		return nil, fmt.Errorf("decoding x coordinate: %w", err)
	}
	y, err := base64.RawURLEncoding.DecodeString(e.Y)
	if err != nil {
		return nil, fmt.Errorf("decoding y coordinate: %w", err)
	}

	return &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}, nil
}

func (e jwkEntry) rsaPublicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(e.N)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	exp, err := base64.RawURLEncoding.DecodeString(e.E)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(exp).Int64()),
	}, nil
}
