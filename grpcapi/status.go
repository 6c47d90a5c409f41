// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpcapi

import (
	"context"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// codeByKind maps every failure kind to exactly one gRPC code, the same way
// apperrors maps kinds to HTTP statuses.
var codeByKind = map[apperrors.Kind]codes.Code{
	apperrors.KindValidation:      codes.InvalidArgument,
	apperrors.KindUnauthenticated: codes.Unauthenticated,
	apperrors.KindForbidden:       codes.PermissionDenied,
	apperrors.KindNotFound:        codes.NotFound,
	apperrors.KindConflict:        codes.AlreadyExists,
	apperrors.KindUpstream:        codes.Unavailable,
	apperrors.KindInternal:        codes.Internal,
}

// StatusError converts err into a gRPC status error. Unclassified errors are
// run through the taxonomy first, so an internal cause is logged with its
// correlation reference and never reaches the wire.
func StatusError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	appErr := apperrors.Classify(ctx, err)

	code, ok := codeByKind[appErr.Kind()]
	if !ok {
		code = codes.Internal
	}

	return status.Error(code, appErr.Error())
}
