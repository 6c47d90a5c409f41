package server

import (
	"net"

	"github.com/MKhiriev/go-api-kit/config"
	"github.com/MKhiriev/go-api-kit/logger"
	"google.golang.org/grpc"
)

type grpcServer struct {
	server  *grpc.Server
	address string
	logger  *logger.Logger
}

func newGRPCServer(srv *grpc.Server, cfg config.Server, logger *logger.Logger) *grpcServer {
	return &grpcServer{
		server:  srv,
		address: cfg.GRPCAddress,
		logger:  logger,
	}
}

func (g *grpcServer) RunServer() {
	listener, err := net.Listen("tcp", g.address)
	if err != nil {
		g.logger.Error().Msgf("gRPC server Listen: %v", err)
		return
	}

	if err := g.server.Serve(listener); err != nil {
		g.logger.Error().Msgf("gRPC server Serve: %v", err)
	}
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.server.GracefulStop()
}
