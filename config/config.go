// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/MKhiriev/go-api-kit/httpapi"
	"github.com/MKhiriev/go-api-kit/postgres"
	"github.com/MKhiriev/go-api-kit/token"
)

// StructuredConfig is the top-level configuration container for a service
// built on go-api-kit. It aggregates the sub-configurations of every layer
// the library provides and is populated by merging values from environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Token holds the accepted signature algorithms and the verification
	// key material for the token verifier.
	Token token.KeyConfig `envPrefix:"TOKEN_"`

	// TokenTTL is how long an issued token remains valid (e.g. "1h", "30m").
	// Only used by services that also issue tokens.
	// Env: TOKEN_TTL
	TokenTTL time.Duration `env:"TOKEN_TTL"`

	// DB holds the connection-pool and retry settings for the database
	// access layer.
	DB postgres.Config `envPrefix:"DB_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// APIKey configures the static-key middleware for service-to-service
	// endpoints. Leave AllowedKeys empty when unused.
	APIKey httpapi.APIKeyConfig

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address on which the gRPC server listens,
	// in "host:port" format (e.g. "0.0.0.0:9090").
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (earlier sources
// win; later ones only fill fields still empty):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
