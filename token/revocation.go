// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package token

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// HTTPRevocationChecker checks revocation against a remote endpoint that
// serves one resource per revoked token ID:
//
//	GET <endpoint>/<tokenID> → 200 if revoked, 404 if still active.
//
// Any other status is an error; the request is then rejected as internal
// rather than silently accepting a possibly revoked token.
type HTTPRevocationChecker struct {
	endpoint string
	client   *resty.Client
}

// NewHTTPRevocationChecker constructs a checker against the given endpoint.
func NewHTTPRevocationChecker(endpoint string, client *resty.Client) *HTTPRevocationChecker {
	return &HTTPRevocationChecker{
		endpoint: endpoint,
		client:   client,
	}
}

// IsRevoked implements RevocationChecker.
func (c *HTTPRevocationChecker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/%s", c.endpoint, tokenID))
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return false, nil
	case http.StatusOK:
		return true, nil
	default:
		return false, fmt.Errorf("revocation endpoint returned %s", resp.Status())
	}
}
