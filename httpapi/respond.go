// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/MKhiriev/go-api-kit/logger"
)

// Respond serializes the given data to JSON and writes it to the HTTP response.
//
// It sets the "Content-Type" header to "application/json" and writes
// the provided HTTP status code before sending the response body.
//
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
//
// Example usage:
//
//	httpapi.Respond(w, map[string]string{"status": "ok"}, http.StatusOK)
func Respond(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// RespondError renders err as the uniform error response: the error is run
// through the taxonomy (already-classified errors pass through unchanged)
// and written as the (status, body) pair the taxonomy dictates.
//
// This is the single place where an error turns into wire bytes; handlers
// should return errors upward and let their outer layer call RespondError
// exactly once.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.Classify(r.Context(), err)
	status, body := apperrors.Response(appErr)

	if _, werr := Respond(w, body, status); werr != nil {
		logger.FromRequest(r).Err(werr).Msg("error writing error response")
	}
}
