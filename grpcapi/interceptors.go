// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpcapi

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/MKhiriev/go-api-kit/httpapi"
	"github.com/MKhiriev/go-api-kit/logger"
	"github.com/MKhiriev/go-api-kit/postgres"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// AuthUnary returns a unary server interceptor enforcing bearer-token
// authentication. The credential is read from the "authorization" metadata
// key in the usual "Bearer <token>" form; on success the per-request context
// carries the same RequestContext the HTTP middleware attaches, so business
// code behind either transport reads its caller identity the same way.
func AuthUnary(verifier httpapi.TokenVerifier, db *postgres.DB) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		raw, err := bearerFromMetadata(ctx)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		identity, err := verifier.Verify(ctx, raw)
		if err != nil {
			return nil, StatusError(ctx, err)
		}

		ctx = httpapi.WithRequestContext(ctx, &httpapi.RequestContext{
			Identity: &identity,
			DB:       db,
		})

		return next(ctx, req)
	}
}

// bearerFromMetadata extracts the raw token from incoming gRPC metadata.
func bearerFromMetadata(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", httpapi.ErrEmptyAuthorizationHeader
	}

	values := md.Get("authorization")
	if len(values) == 0 || values[0] == "" {
		return "", httpapi.ErrEmptyAuthorizationHeader
	}

	parts := strings.Split(values[0], " ")
	if len(parts) < 2 {
		return "", httpapi.ErrInvalidAuthorizationHeader
	}
	if parts[1] == "" {
		return "", httpapi.ErrEmptyToken
	}

	return parts[1], nil
}

// LoggingUnary returns a unary server interceptor that emits one structured
// log record per call: method, resulting code, duration and peer address.
// Payloads are never logged.
func LoggingUnary(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		code := status.Code(err)

		var remote string
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			remote = p.Addr.String()
		}

		log.Info().
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Str("peer", remote).
			Send()

		return resp, err
	}
}

// RecoverUnary returns a unary server interceptor that recovers from handler
// panics, logs the panic value with its stack, and returns a bare internal
// status to the caller.
func RecoverUnary(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Any("reason", r).
					Bytes("stack", debug.Stack()).
					Str("method", info.FullMethod).
					Msg("panic recovered")
				err = status.Error(codes.Internal, "internal")
			}
		}()
		return next(ctx, req)
	}
}
