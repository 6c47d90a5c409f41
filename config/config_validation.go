// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies the
// library's invariants before it is handed to the consuming service.
//
// Groups that are entirely unset are allowed: a service without a database
// simply leaves the DB group empty. A group that is partially set must be
// coherent.
func (cfg *StructuredConfig) validate() error {
	if cfg.Token.Secret != "" && cfg.Token.KeyPath != "" {
		return fmt.Errorf("%w: both shared secret and key file configured", ErrInvalidTokenConfigs)
	}
	if (cfg.Token.Secret != "" || cfg.Token.KeyPath != "") && len(cfg.Token.Algorithms) == 0 {
		return fmt.Errorf("%w: key material configured without accepted algorithms", ErrInvalidTokenConfigs)
	}
	if cfg.TokenTTL < 0 {
		return fmt.Errorf("%w: negative token TTL", ErrInvalidTokenConfigs)
	}

	if cfg.DB.DSN != "" {
		if cfg.DB.Retry.MaxAttempts < 0 {
			return fmt.Errorf("%w: negative retry attempts", ErrInvalidStorageConfigs)
		}
		if cfg.DB.Retry.BaseBackoff < 0 || cfg.DB.Retry.Jitter < 0 {
			return fmt.Errorf("%w: negative retry backoff", ErrInvalidStorageConfigs)
		}
		if cfg.DB.MinConns > cfg.DB.MaxConns && cfg.DB.MaxConns > 0 {
			return fmt.Errorf("%w: min connections exceed max", ErrInvalidStorageConfigs)
		}
	}

	return nil
}
