// Package apperrors defines the closed error taxonomy shared by every
// service built on go-api-kit.
//
// It keeps failure handling consistent across independently written
// handlers by:
//   - Providing a structured *Error that carries a stable Kind, a
//     human-readable message, and optional per-field problems.
//   - Mapping every Kind to exactly one HTTP status code at the edge.
//   - Guaranteeing that internal failures never leak their cause to the
//     caller: an internal error is logged once, at construction, together
//     with an opaque reference that is the only detail the caller sees.
//
// Infrastructure layers (the postgres executor, the token verifier)
// pre-classify their raw errors into this taxonomy, so business logic
// never inspects driver or cryptographic errors directly.
package apperrors
