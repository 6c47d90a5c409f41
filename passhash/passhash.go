// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package passhash implements server-side password hashing and verification
// with Argon2id, for services that keep local credentials next to their
// token-based authentication.
package passhash

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32

	// SaltLen is the recommended salt length for NewSalt.
	SaltLen = 16
)

// NewSalt returns a fresh cryptographically secure random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	_, err := rand.Read(salt)
	return salt, err
}

// Hash returns the Argon2id hash of password using the provided salt.
func Hash(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// Verify verifies password against the expected Argon2id hash and salt in
// constant time.
func Verify(password, salt, expected []byte) bool {
	got := Hash(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}
