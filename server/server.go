package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-api-kit/config"
	"github.com/MKhiriev/go-api-kit/logger"
	"google.golang.org/grpc"
)

// Server defines the common lifecycle contract for transport servers managed
// by this package.
//
// Implementations are expected to block in [RunServer] until shutdown is
// requested and to release resources in [Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}

var errNoServersAreCreated = errors.New("no servers are created")

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	logger     *logger.Logger

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewServer builds the transport servers the configuration asks for: an HTTP
// server when cfg.HTTPAddress is set and a gRPC server when cfg.GRPCAddress
// is set. Either handler may be nil when its address is unset; at least one
// server must result.
func NewServer(httpHandler http.Handler, grpcSrv *grpc.Server, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{stopped: make(chan struct{})}

	if cfg.HTTPAddress != "" && httpHandler != nil {
		servers.httpServer = newHTTPServer(httpHandler, cfg, logger)
	}
	if cfg.GRPCAddress != "" && grpcSrv != nil {
		servers.gRPCServer = newGRPCServer(grpcSrv, cfg, logger)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	servers.logger = logger

	return servers, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Info().Msgf("Error running server: %v \n", err)
	}
}

func (s *server) Shutdown() {
	s.stopOnce.Do(func() {
		if s.httpServer != nil {
			s.httpServer.Shutdown()
		}
		if s.gRPCServer != nil {
			s.gRPCServer.Shutdown()
		}
		close(s.stopped)
	})
}

func (s *server) run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// stop signals and explicit Shutdown calls converge on s.stopped
	go func() {
		select {
		case <-ctx.Done():
			s.Shutdown()
		case <-s.stopped:
		}
	}()

	if s.httpServer != nil {
		s.logger.Info().Msg("Launching HTTP server")
		go s.httpServer.RunServer()
	}
	if s.gRPCServer != nil {
		s.logger.Info().Msg("Launching GRPC server")
		go s.gRPCServer.RunServer()
	}

	<-s.stopped
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
