package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-api-kit/logger"
	"github.com/MKhiriev/go-api-kit/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTraceID_TableTest(t *testing.T) {
	tests := []struct {
		name            string
		requestTraceID  string
		wantSameTraceID bool
	}{
		{
			name:            "trace ID from request header is reused",
			requestTraceID:  "my-custom-trace-id",
			wantSameTraceID: true,
		},
		{
			name:           "no trace ID in request generates a UUID",
			requestTraceID: "",
		},
		{
			name:            "UUID string as incoming trace ID",
			requestTraceID:  "550e8400-e29b-41d4-a716-446655440000",
			wantSameTraceID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMiddleware(&fakeVerifier{identity: token.Identity{}})

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.requestTraceID != "" {
				req.Header.Set("X-Trace-ID", tt.requestTraceID)
			}
			rr := httptest.NewRecorder()

			m.WithTraceID(next).ServeHTTP(rr, req)

			got := rr.Header().Get("X-Trace-ID")
			require.NotEmpty(t, got, "response must always carry a trace ID")

			if tt.wantSameTraceID {
				assert.Equal(t, tt.requestTraceID, got)
			} else {
				_, err := uuid.Parse(got)
				assert.NoError(t, err, "generated trace ID must be a valid UUID")
			}
		})
	}
}

func TestNewRouter_ChainWiring(t *testing.T) {
	m := NewMiddleware(&fakeVerifier{identity: token.Identity{Subject: "user-42"}}, nil, logger.Nop())
	router := NewRouter(m)

	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		Respond(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"), "trace middleware runs on every route")
}

func TestRecover_PanicBecomesInternalError(t *testing.T) {
	m := newTestMiddleware(&fakeVerifier{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(logger.Nop().WithContext(req.Context()))
	rr := httptest.NewRecorder()

	m.Recover(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeErrorBody(t, rr)
	assert.Equal(t, "internal", body.Code)
	assert.NotEmpty(t, body.Reference)
	assert.NotContains(t, body.Title, "boom", "the panic value must never leak to the caller")
}
