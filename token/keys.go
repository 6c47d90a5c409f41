// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package token

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for key-material loading. Construction fails fast on any
// of them; a Verifier or Issuer is never built with partial key material.
var (
	ErrNoKeyMaterial        = errors.New("no key material configured")
	ErrAmbiguousKeyMaterial = errors.New("both shared secret and key file configured")
	ErrNoAlgorithms         = errors.New("no accepted algorithms configured")
)

// KeyConfig describes where the key material comes from and which signature
// algorithms are accepted. It is loaded once at process start and treated as
// immutable afterwards.
type KeyConfig struct {
	// Algorithms is the fixed set of accepted signing algorithms
	// (e.g. "HS256", "ES256", "RS256"). The set is never read from a token.
	// Env: TOKEN_ALGORITHMS
	Algorithms []string `env:"ALGORITHMS" envSeparator:","`

	// Secret is the shared HMAC secret. Mutually exclusive with KeyPath.
	// Env: TOKEN_SECRET
	Secret string `env:"SECRET"`

	// KeyPath is the path to a PEM file holding the asymmetric key:
	// a public key for verification, a private key for issuing.
	// Mutually exclusive with Secret.
	// Env: TOKEN_KEY_PATH
	KeyPath string `env:"KEY_PATH"`

	// Issuer is the expected "iss" claim. When non-empty it is validated on
	// every verification and stamped on every issued token.
	// Env: TOKEN_ISSUER
	Issuer string `env:"ISSUER"`
}

func (c KeyConfig) validate() error {
	if len(c.Algorithms) == 0 {
		return ErrNoAlgorithms
	}
	if c.Secret == "" && c.KeyPath == "" {
		return ErrNoKeyMaterial
	}
	if c.Secret != "" && c.KeyPath != "" {
		return ErrAmbiguousKeyMaterial
	}
	return nil
}

// hmacOnly reports whether every accepted algorithm is an HMAC variant.
func (c KeyConfig) hmacOnly() bool {
	for _, alg := range c.Algorithms {
		if !strings.HasPrefix(alg, "HS") {
			return false
		}
	}
	return len(c.Algorithms) > 0
}

// loadVerificationKey resolves the immutable verification key from cfg:
// the shared secret for HMAC algorithms, or a public key parsed from the
// configured PEM file for asymmetric ones.
func loadVerificationKey(cfg KeyConfig) (any, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Secret != "" {
		if !cfg.hmacOnly() {
			return nil, fmt.Errorf("shared secret requires HMAC algorithms, got %v", cfg.Algorithms)
		}
		return []byte(cfg.Secret), nil
	}

	pem, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading verification key file: %w", err)
	}

	switch {
	case hasAlgorithmPrefix(cfg.Algorithms, "ES"):
		key, err := jwt.ParseECPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing EC public key: %w", err)
		}
		return key, nil
	case hasAlgorithmPrefix(cfg.Algorithms, "RS"), hasAlgorithmPrefix(cfg.Algorithms, "PS"):
		key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing RSA public key: %w", err)
		}
		return key, nil
	case hasAlgorithmPrefix(cfg.Algorithms, "EdDSA"):
		key, err := jwt.ParseEdPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing Ed25519 public key: %w", err)
		}
		return key, nil
	}

	return nil, fmt.Errorf("unsupported algorithm set %v for PEM key material", cfg.Algorithms)
}

// loadSigningKey resolves the signing key from cfg: the shared secret for
// HMAC algorithms, or a private key parsed from the configured PEM file.
func loadSigningKey(cfg KeyConfig) (any, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Secret != "" {
		if !cfg.hmacOnly() {
			return nil, fmt.Errorf("shared secret requires HMAC algorithms, got %v", cfg.Algorithms)
		}
		return []byte(cfg.Secret), nil
	}

	pem, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading signing key file: %w", err)
	}

	switch {
	case hasAlgorithmPrefix(cfg.Algorithms, "ES"):
		key, err := jwt.ParseECPrivateKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing EC private key: %w", err)
		}
		return key, nil
	case hasAlgorithmPrefix(cfg.Algorithms, "RS"), hasAlgorithmPrefix(cfg.Algorithms, "PS"):
		key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing RSA private key: %w", err)
		}
		return key, nil
	case hasAlgorithmPrefix(cfg.Algorithms, "EdDSA"):
		key, err := jwt.ParseEdPrivateKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing Ed25519 private key: %w", err)
		}
		return key, nil
	}

	return nil, fmt.Errorf("unsupported algorithm set %v for PEM key material", cfg.Algorithms)
}

func hasAlgorithmPrefix(algorithms []string, prefix string) bool {
	for _, alg := range algorithms {
		if strings.HasPrefix(alg, prefix) {
			return true
		}
	}
	return false
}
