// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the HTTP and gRPC servers of a service built on this
// library and shuts them down gracefully on SIGTERM/SIGINT/SIGQUIT. A
// service hands it the router from httpapi and/or a grpc.Server carrying the
// grpcapi interceptors and calls RunServer.
package server
