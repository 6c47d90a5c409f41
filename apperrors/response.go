// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package apperrors

import "net/http"

// ErrorBody is the JSON payload for an error response. Field names are
// camelCase on the wire; Code is the stable tag callers can match on.
type ErrorBody struct {
	// Code is the kebab-case kind tag (see Kind.String).
	Code string `json:"code"`

	// Title is a human-readable summary. For internal errors it is the
	// generic "internal error, reference <id>" string and nothing else.
	Title string `json:"title"`

	// Reference is the opaque correlation identifier, present only for
	// internal errors.
	Reference string `json:"reference,omitempty"`

	// Problems lists the individual validation problems, present only for
	// validation errors.
	Problems []Problem `json:"problems,omitempty"`
}

// statusByKind is the single source of truth for the Kind → HTTP status
// mapping. Every Kind appears exactly once.
var statusByKind = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindUpstream:        http.StatusBadGateway,
	KindInternal:        http.StatusInternalServerError,
}

// StatusCode returns the HTTP status code for the error's kind.
func (e *Error) StatusCode() int {
	if status, ok := statusByKind[e.kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// title returns the user-facing summary for the wire body. Unlike Error it
// never falls back to the wrapped cause, so a constructor called with an
// empty description cannot leak driver or client internals.
func (e *Error) title() string {
	if e.msg != "" {
		return e.msg
	}
	return e.kind.String()
}

// Response converts the error into its wire form: the HTTP status code and
// the JSON-serializable body. It is total and deterministic over all kinds.
//
// Serialization to bytes is the transport layer's job; see httpapi.
func Response(e *Error) (int, ErrorBody) {
	body := ErrorBody{
		Code:  e.kind.String(),
		Title: e.title(),
	}

	switch e.kind {
	case KindInternal:
		// The message already is the generic reference string; the cause
		// stays in the log record only.
		body.Reference = e.reference
	case KindValidation:
		body.Problems = e.problems
	}

	return e.StatusCode(), body
}
