package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-api-kit/config"
	"github.com/MKhiriev/go-api-kit/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func TestNewServer_NoAddressesConfigured(t *testing.T) {
	_, err := NewServer(nil, nil, config.Server{}, logger.Nop())

	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestNewServer_AddressWithoutHandlerIsSkipped(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0"}

	_, err := NewServer(nil, nil, cfg, logger.Nop())

	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestServer_ShutdownUnblocksRun(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	cfg := config.Server{HTTPAddress: "127.0.0.1:0"}

	srv, err := NewServer(handler, nil, cfg, logger.Nop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		srv.RunServer()
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	srv.Shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunServer did not return after Shutdown")
	}
}

func TestServer_GRPCShutdownUnblocksRun(t *testing.T) {
	cfg := config.Server{GRPCAddress: "127.0.0.1:0"}

	srv, err := NewServer(nil, grpc.NewServer(), cfg, logger.Nop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		srv.RunServer()
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	srv.Shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunServer did not return after Shutdown")
	}
}

func TestServer_ShutdownIsIdempotent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	cfg := config.Server{HTTPAddress: "127.0.0.1:0"}

	srv, err := NewServer(handler, nil, cfg, logger.Nop())
	require.NoError(t, err)

	srv.Shutdown()
	srv.Shutdown() // second call must not panic
}
