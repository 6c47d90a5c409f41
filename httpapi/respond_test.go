package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/MKhiriev/go-api-kit/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond_WritesJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	n, err := Respond(rr, map[string]string{"status": "ok"}, http.StatusCreated)

	require.NoError(t, err)
	assert.Positive(t, n)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRespond_MarshalFailure(t *testing.T) {
	rr := httptest.NewRecorder()

	// channels cannot be marshaled to JSON
	_, err := Respond(rr, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRespondError_ClassifiedError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders/7", nil)
	rr := httptest.NewRecorder()

	RespondError(rr, req, apperrors.NewNotFound("order", "7"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	body := decodeErrorBody(t, rr)
	assert.Equal(t, "not-found", body.Code)
	assert.Contains(t, body.Title, "order")
}

func TestRespondError_ValidationProblems(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	rr := httptest.NewRecorder()

	RespondError(rr, req, apperrors.NewValidation(
		apperrors.InvalidField("must be positive", "/quantity")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeErrorBody(t, rr)
	assert.Equal(t, "validation", body.Code)
	require.Len(t, body.Problems, 1)
	assert.Equal(t, "/quantity", body.Problems[0].Pointer)
}

func TestRespondError_UnclassifiedErrorBecomesInternal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req = req.WithContext(logger.Nop().WithContext(req.Context()))
	rr := httptest.NewRecorder()

	RespondError(rr, req, errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeErrorBody(t, rr)
	assert.Equal(t, "internal", body.Code)
	assert.NotEmpty(t, body.Reference)
	assert.NotContains(t, body.Title, "connection reset",
		"the cause must never leak to the caller")
}

func TestRespondError_BodyShape(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rr := httptest.NewRecorder()

	RespondError(rr, req, apperrors.NewForbidden("scope missing"))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Contains(t, raw, "code")
	assert.Contains(t, raw, "title")
	assert.NotContains(t, raw, "reference", "reference is omitted outside internal errors")
	assert.NotContains(t, raw, "problems", "problems are omitted outside validation errors")
}
