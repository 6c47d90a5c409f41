// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpapi

import (
	"crypto/subtle"
	"net/http"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/MKhiriev/go-api-kit/logger"
)

// APIKeyConfig configures the APIKey middleware.
type APIKeyConfig struct {
	// Header is the request header carrying the key, e.g. "X-Api-Key".
	Header string `env:"API_KEY_HEADER" envDefault:"X-Api-Key"`

	// AllowedKeys is the set of accepted key values. An empty set rejects
	// every request.
	AllowedKeys []string `env:"API_KEY_ALLOWED" envSeparator:","`
}

// APIKey is an HTTP middleware for service-to-service endpoints that are
// protected by a static key instead of a bearer token. The presented key is
// compared against every allowed key in constant time.
//
// Requests with a missing or unknown key are rejected with HTTP 401 in the
// uniform error format.
func APIKey(cfg APIKeyConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(cfg.Header)
			if presented == "" {
				logger.FromRequest(r).Warn().Str("header", cfg.Header).Msg("missing API key")
				RespondError(w, r, apperrors.NewUnauthenticated("missing API key"))
				return
			}

			if !keyAllowed(presented, cfg.AllowedKeys) {
				logger.FromRequest(r).Warn().Str("header", cfg.Header).Msg("unknown API key")
				RespondError(w, r, apperrors.NewUnauthenticated("invalid API key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// keyAllowed checks presented against every allowed key, always in constant
// time and without short-circuiting on the first match, so response timing
// reveals nothing about the configured key set.
func keyAllowed(presented string, allowed []string) bool {
	match := false
	for _, key := range allowed {
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
			match = true
		}
	}
	return match
}
