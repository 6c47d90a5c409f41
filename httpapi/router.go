// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpapi

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/go-chi/chi/v5"
)

// NewRouter returns a chi router pre-wired with the transport chain every
// service built on this library shares: panic recovery, trace-ID propagation
// and request logging. Consuming services mount their routes on it, putting
// authenticated ones behind m.Auth:
//
//	router := httpapi.NewRouter(m)
//	router.Group(func(r chi.Router) {
//		r.Use(m.Auth)
//		r.Get("/api/orders", listOrders)
//	})
func NewRouter(m *Middleware) *chi.Mux {
	// Recover sits inside the trace and logging middleware so a panic is
	// logged with its trace ID and the 500 it produced shows up in the
	// request log.
	router := chi.NewRouter()
	router.Use(m.WithTraceID)
	router.Use(m.WithLogging)
	router.Use(m.Recover)

	return router
}

// Recover converts a handler panic into the uniform internal-error response.
// The panic value is logged with a correlation reference; the caller only
// ever sees the opaque reference. http.ErrAbortHandler is re-raised so the
// server's connection-abort mechanism keeps working.
func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				RespondError(w, r, apperrors.NewInternal(r.Context(), fmt.Errorf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
