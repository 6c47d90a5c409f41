// Package token verifies and issues the signed bearer tokens used to
// authenticate callers of services built on go-api-kit.
//
// The Verifier is constructed once at process start from immutable key
// material and a fixed set of accepted signing algorithms; after that it is
// a pure function over its configuration and is safe for unlimited
// concurrent use. The accepted algorithm set is never read from the token
// itself, so algorithm-confusion attacks (including "none") are impossible
// by construction. Key rotation requires constructing a new Verifier.
//
// All verification failures are terminal for the request and surface as
// apperrors.KindUnauthenticated; they are never retried.
package token
