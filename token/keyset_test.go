package token

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jwksHandler serves a JWKS document for the given EC keys and counts hits.
type jwksHandler struct {
	keys  map[string]*ecdsa.PublicKey
	hits  int
	codes []int // optional per-hit status overrides
}

func (h *jwksHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.hits++
	if len(h.codes) >= h.hits && h.codes[h.hits-1] != 0 {
		w.WriteHeader(h.codes[h.hits-1])
		return
	}

	var document struct {
		Keys []jwkEntry `json:"keys"`
	}
	for kid, key := range h.keys {
		document.Keys = append(document.Keys, jwkEntry{
			Kty: "EC",
			Kid: kid,
			Crv: "P-256",
			X:   base64.RawURLEncoding.EncodeToString(key.X.Bytes()),
			Y:   base64.RawURLEncoding.EncodeToString(key.Y.Bytes()),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(document)
}

func newECKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestKeySet_FetchesKeyOnMiss(t *testing.T) {
	private := newECKey(t)
	handler := &jwksHandler{keys: map[string]*ecdsa.PublicKey{"key-1": &private.PublicKey}}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	keySet := NewKeySet(srv.URL, resty.New())

	key, err := keySet.Key(context.Background(), "key-1")
	require.NoError(t, err)

	got, ok := key.(*ecdsa.PublicKey)
	require.True(t, ok)
	assert.Zero(t, got.X.Cmp(private.PublicKey.X))
	assert.Equal(t, 1, handler.hits)

	// second lookup is served from cache
	_, err = keySet.Key(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, 1, handler.hits)
}

func TestKeySet_UnknownKidAfterRefresh(t *testing.T) {
	handler := &jwksHandler{keys: map[string]*ecdsa.PublicKey{}}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	keySet := NewKeySet(srv.URL, resty.New())

	_, err := keySet.Key(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key ID")
	assert.Equal(t, 1, handler.hits, "a miss triggers exactly one refresh")
}

func TestKeySet_EndpointFailure(t *testing.T) {
	handler := &jwksHandler{codes: []int{http.StatusInternalServerError}}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	keySet := NewKeySet(srv.URL, resty.New())

	_, err := keySet.Key(context.Background(), "key-1")
	require.Error(t, err)
}

func TestVerify_ES256ThroughKeySet(t *testing.T) {
	private := newECKey(t)
	handler := &jwksHandler{keys: map[string]*ecdsa.PublicKey{"signing-key": &private.PublicKey}}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	issued := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodES256, baseClaims(issued, issued.Add(time.Hour)))
	tok.Header["kid"] = "signing-key"
	raw, err := tok.SignedString(private)
	require.NoError(t, err)

	v, err := NewVerifier(
		KeyConfig{Algorithms: []string{"ES256"}},
		WithKeySet(NewKeySet(srv.URL, resty.New())),
	)
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "user-42", identity.Subject)
}

func TestVerify_KeySetTokenWithoutKidRejected(t *testing.T) {
	private := newECKey(t)
	srv := httptest.NewServer(&jwksHandler{keys: map[string]*ecdsa.PublicKey{"k": &private.PublicKey}})
	defer srv.Close()

	issued := time.Now()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodES256, baseClaims(issued, issued.Add(time.Hour))).
		SignedString(private)
	require.NoError(t, err)

	v, err := NewVerifier(
		KeyConfig{Algorithms: []string{"ES256"}},
		WithKeySet(NewKeySet(srv.URL, resty.New())),
	)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), raw)
	requireUnauthenticated(t, err)
}
