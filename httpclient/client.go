// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package httpclient provides the outbound HTTP client used for
// service-to-service calls. It wraps resty so every consumer of the library
// talks to its peers the same way: shared timeout defaults and an optional
// API key attached to every request.
package httpclient

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := httpclient.New()
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// New creates and returns a new HTTPClient instance with a
// default-configured underlying resty.Client.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func New() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}

// NewWithAPIKey returns a client that sends the given key in the given
// header on every request. Services behind the APIKey middleware of this
// library are called with exactly such a client.
func NewWithAPIKey(header, key string) *HTTPClient {
	client := New()
	client.SetHeader(header, key)
	return client
}

// WithTimeout sets the per-request timeout and returns the same client for
// chaining.
func (c *HTTPClient) WithTimeout(timeout time.Duration) *HTTPClient {
	c.SetTimeout(timeout)
	return c
}
