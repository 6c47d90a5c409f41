// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package apperrors

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-api-kit/logger"
	"github.com/google/uuid"
)

// Kind classifies errors into the fixed buckets used across the library.
// Every Kind maps to exactly one HTTP status code (see StatusCode).
type Kind int

const (
	// KindInternal is the default bucket for unexpected failures. Its cause
	// is never exposed to the caller, only an opaque reference.
	KindInternal Kind = iota

	// KindValidation marks request payloads that failed validation.
	KindValidation

	// KindNotFound marks lookups of resources that do not exist.
	KindNotFound

	// KindConflict marks state conflicts: duplicate keys, version clashes,
	// serialization failures.
	KindConflict

	// KindUnauthenticated marks requests whose caller identity could not be
	// established (missing, malformed, expired or forged credentials).
	KindUnauthenticated

	// KindForbidden marks requests whose caller is known but not allowed.
	KindForbidden

	// KindUpstream marks failures of a collaborator the request depends on
	// (database connectivity, downstream APIs).
	KindUpstream
)

// String returns the stable kebab-case tag for the kind. The tag is part of
// the wire contract: callers match on it programmatically.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindUpstream:
		return "upstream"
	case KindInternal:
		return "internal"
	default:
		return "internal"
	}
}

// Problem details one part of a validation failure, in the style of
// RFC 7807 problem members.
type Problem struct {
	// Code is a kebab-case string that identifies the problem type.
	Code string `json:"code"`

	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`

	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`

	// Pointer is a JSON path identifying the part of the request that
	// caused the problem.
	Pointer string `json:"pointer,omitempty"`
}

// InvalidField builds the standard problem for a single invalid request field.
func InvalidField(detail, pointer string) Problem {
	return Problem{
		Code:    "invalid-field",
		Title:   "Your request contained invalid fields.",
		Detail:  detail,
		Pointer: pointer,
	}
}

// Error is the structured error used across the library and the services
// consuming it. It wraps an optional underlying cause while carrying a
// user-facing message, a Kind, and classification metadata.
//
// An *Error is immutable after construction except for MarkRetryable, which
// is reserved for infrastructure classifiers.
type Error struct {
	kind      Kind
	msg       string
	problems  []Problem
	resource  string
	key       string
	reference string
	retryable bool
	err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}
	if e.err != nil {
		return e.err.Error()
	}
	return e.kind.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the taxonomy bucket of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Reference returns the opaque correlation identifier for internal errors,
// or an empty string for every other kind.
func (e *Error) Reference() string {
	return e.reference
}

// Retryable reports whether the failure is transient and the whole unit of
// work may safely be re-attempted. Only infrastructure classifiers set this.
func (e *Error) Retryable() bool {
	return e.retryable
}

// Problems returns the per-field validation problems attached to the error.
func (e *Error) Problems() []Problem {
	return e.problems
}

// MarkRetryable flags the error as transient. It returns the receiver so
// classifiers can use it in a single expression.
func (e *Error) MarkRetryable() *Error {
	e.retryable = true
	return e
}

// NewValidation constructs a validation error from one or more field
// problems.
func NewValidation(problems ...Problem) *Error {
	return &Error{
		kind:     KindValidation,
		msg:      "request validation failed",
		problems: problems,
	}
}

// NewNotFound constructs a not-found error for the given resource kind and
// lookup key. The key may be empty when the caller has nothing better than
// "the requested one".
func NewNotFound(resource, key string) *Error {
	msg := fmt.Sprintf("%s was not found", resource)
	if key != "" {
		msg = fmt.Sprintf("%s %q was not found", resource, key)
	}
	return &Error{
		kind:     KindNotFound,
		msg:      msg,
		resource: resource,
		key:      key,
	}
}

// NewConflict constructs a conflict error with the given reason.
func NewConflict(reason string) *Error {
	return &Error{kind: KindConflict, msg: reason}
}

// NewUnauthenticated constructs an authentication error with the given
// reason. The reason is safe to show to the caller.
func NewUnauthenticated(reason string) *Error {
	return &Error{kind: KindUnauthenticated, msg: reason}
}

// NewForbidden constructs an authorization error with the given reason.
func NewForbidden(reason string) *Error {
	return &Error{kind: KindForbidden, msg: reason}
}

// NewUpstream constructs an upstream-failure error. cause may be nil.
func NewUpstream(description string, cause error) *Error {
	return &Error{kind: KindUpstream, msg: description, err: cause}
}

// NewInternal constructs an internal error wrapping cause.
//
// A fresh correlation reference is generated and the full cause is emitted
// exactly once to the context-scoped logger, at construction time. Callers
// further up the stack must propagate the returned *Error unchanged so the
// record is never duplicated.
func NewInternal(ctx context.Context, cause error) *Error {
	reference := uuid.NewString()

	log := logger.FromContext(ctx)
	log.Error().
		Err(cause).
		Str("reference", reference).
		Msg("internal error")

	return &Error{
		kind:      KindInternal,
		msg:       fmt.Sprintf("internal error, reference %s", reference),
		reference: reference,
		err:       cause,
	}
}

// Classify normalises an arbitrary error into the taxonomy.
//
// An error that already is (or wraps) an *Error passes through unchanged so
// classification and the internal-error log emission happen at most once per
// failure. Anything else becomes an internal error with a fresh reference.
// A nil err yields nil.
func Classify(ctx context.Context, err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return NewInternal(ctx, err)
}
