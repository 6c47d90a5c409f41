// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package httpapi is the HTTP boundary of go-api-kit. It provides middleware
// for authentication, API-key checks, tracing and request logging, the
// per-request RequestContext carrying the caller's identity and a database
// handle, and response helpers that render classified errors uniformly.
//
// Consuming services mount their business routes on the router returned by
// NewRouter and read the RequestContext in their handlers; everything above
// the handler (token verification, trace propagation, error rendering) is
// handled here.
package httpapi
