package server

import (
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewGRPCServer serves the gate over the standard gRPC health protocol.
// GateService reports SERVING while the start button is enabled; the empty
// service name reports the process itself.
func NewGRPCServer(gs *GateServer, authToken string) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(gs.logger),
			LoggingInterceptor(gs.logger),
			AuthInterceptor(authToken),
		),
		grpc.ChainStreamInterceptor(
			StreamAuthInterceptor(authToken),
		),
	)
	healthpb.RegisterHealthServer(srv, gs.health)
	reflection.Register(srv)
	return srv
}
