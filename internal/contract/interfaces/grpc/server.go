// Package grpc 合约服务的 gRPC 入口：健康检查、反射与通用拦截器
package grpc

import (
	"context"
	"time"

	"github.com/wyfcoding/optionstracker/pkg/logger"
	"github.com/wyfcoding/optionstracker/pkg/middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Pinger 依赖的连通性检查，例如 *db.DB
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server gRPC 服务及其健康状态
type Server struct {
	*grpc.Server
	health      *health.Server
	serviceName string
	pingers     []Pinger
}

// NewServer 创建 gRPC 服务，注册 health 与 reflection
// 初始状态为 NOT_SERVING，首次 Check 通过后切换为 SERVING
func NewServer(serviceName string, pingers ...Pinger) *Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.GRPCRecoveryInterceptor(),
			middleware.GRPCLoggingInterceptor(),
		),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{Server: srv, health: hs, serviceName: serviceName, pingers: pingers}
}

// Check 检查全部依赖并更新健康状态，返回第一个失败的错误
func (s *Server) Check(ctx context.Context) error {
	status := healthpb.HealthCheckResponse_SERVING
	var firstErr error
	for _, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			firstErr = err
			break
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.serviceName, status)
	return firstErr
}

// WatchHealth 周期性检查依赖直到 ctx 取消
func (s *Server) WatchHealth(ctx context.Context, interval time.Duration) error {
	if err := s.Check(ctx); err != nil {
		logger.Warn(ctx, "Dependency health check failed", "error", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Check(ctx); err != nil {
				logger.Warn(ctx, "Dependency health check failed", "error", err)
			}
		}
	}
}

// Shutdown 标记下线后优雅停止
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.GracefulStop()
}
