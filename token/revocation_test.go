package token

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRevocationChecker_TableTest(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantRevoked bool
		wantErr     bool
	}{
		{name: "404 means active", status: http.StatusNotFound, wantRevoked: false},
		{name: "200 means revoked", status: http.StatusOK, wantRevoked: true},
		{name: "unexpected status is an error", status: http.StatusBadGateway, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			checker := NewHTTPRevocationChecker(srv.URL+"/revoked-tokens", resty.New())

			revoked, err := checker.IsRevoked(context.Background(), "tid-123")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRevoked, revoked)
			assert.Equal(t, "/revoked-tokens/tid-123", gotPath)
		})
	}
}
