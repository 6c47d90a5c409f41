// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package grpcapi mirrors httpapi for services that expose a gRPC surface:
// unary interceptors for bearer-token authentication, structured request
// logging and panic recovery, plus the translation of classified errors
// into gRPC status codes.
package grpcapi
