// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidTokenConfigs indicates invalid token verification settings
	// (for example, both a shared secret and a key file configured at once).
	ErrInvalidTokenConfigs = errors.New("invalid token configuration")
	// ErrInvalidStorageConfigs indicates invalid database settings
	// (for example, a retry policy with zero attempts on a configured DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
