// Package grpc builds the service's gRPC server: health checking,
// reflection and request logging.
package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// ServiceName is the name reported by the health service for this server.
const ServiceName = "cart.pricing"

// CheckFunc reports whether a backing dependency is reachable.
type CheckFunc func(ctx context.Context) error

// NewServer creates a gRPC server with the logging interceptor, the health
// service (initially SERVING) and reflection registered.
func NewServer(logger *zap.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryLoggingInterceptor(logger))}, opts...)
	s := grpc.NewServer(opts...)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(s)

	return s, healthServer
}

// UnaryLoggingInterceptor logs every call with its status code. Errors are
// returned unchanged.
func UnaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.Warn("grpc request failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("grpc request", fields...)
		}

		return resp, err
	}
}

// MonitorHealth runs check every interval and flips ServiceName between
// SERVING and NOT_SERVING. It returns when ctx is done.
func MonitorHealth(ctx context.Context, hs *health.Server, interval time.Duration, check CheckFunc, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := true
	for {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		err := check(checkCtx)
		cancel()

		switch {
		case err != nil && serving:
			logger.Warn("dependency check failed, reporting NOT_SERVING", zap.Error(err))
			hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
			serving = false
		case err == nil && !serving:
			logger.Info("dependency check recovered, reporting SERVING")
			hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
			serving = true
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
