package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pb "github.com/wyfcoding/optionstracker/go-api/contract/v1"
	"github.com/wyfcoding/optionstracker/internal/contract/application"
	"github.com/wyfcoding/optionstracker/internal/contract/domain"
	"github.com/wyfcoding/optionstracker/internal/contract/infrastructure/messaging"
	"github.com/wyfcoding/optionstracker/internal/contract/infrastructure/persistence"
	"github.com/wyfcoding/optionstracker/internal/contract/infrastructure/persistence/mysql"
	contract_redis "github.com/wyfcoding/optionstracker/internal/contract/infrastructure/persistence/redis"
	grpc_server "github.com/wyfcoding/optionstracker/internal/contract/interfaces/grpc"
	http_handler "github.com/wyfcoding/optionstracker/internal/contract/interfaces/http"
	"github.com/wyfcoding/optionstracker/pkg/cache"
	"github.com/wyfcoding/optionstracker/pkg/config"
	"github.com/wyfcoding/optionstracker/pkg/db"
	"github.com/wyfcoding/optionstracker/pkg/logger"
	"github.com/wyfcoding/optionstracker/pkg/metrics"
	"github.com/wyfcoding/optionstracker/pkg/middleware"
	"github.com/wyfcoding/optionstracker/pkg/mq"
	"github.com/wyfcoding/optionstracker/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/contracts/config.toml", "path to config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configPath); err != nil {
		logger.Error(context.Background(), "Service exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	// 1. Config
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return err
	}

	// 2. Logger
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		return err
	}
	logger.Info(ctx, "Starting service", "service", cfg.ServiceName, "environment", cfg.Environment)

	// 3. Database
	database, err := db.Init(ctx, db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		return err
	}
	defer database.Close()

	if err := mysql.AutoMigrate(database.DB); err != nil {
		return err
	}
	if err := messaging.AutoMigrate(database.DB); err != nil {
		return err
	}

	// 4. Infrastructure
	m := metrics.New(cfg.ServiceName)
	contractRepo := mysql.NewContractRepository(database.DB)
	pingers := []grpc_server.Pinger{database}

	var limiter ratelimit.RateLimiter = ratelimit.NewLocalRateLimiter()
	if cfg.Redis.Enabled() {
		redisCache, err := cache.New(ctx, cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ConnTimeout:  cfg.Redis.ConnTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return err
		}
		defer redisCache.Close()

		readCache := contract_redis.NewContractRedisRepository(redisCache, time.Duration(cfg.Redis.TTL)*time.Second)
		contractRepo = persistence.NewCompositeContractRepository(contractRepo, readCache)
		limiter = ratelimit.NewRedisRateLimiter(redisCache.Client())
		pingers = append(pingers, redisCache)
	}

	// 5. Application
	engine := domain.NewValuationEngine(domain.SystemClock{})
	svc := application.NewContractService(
		contractRepo,
		mysql.NewPortfolioRepository(database.DB),
		messaging.NewOutboxEventPublisher(database.DB),
		engine,
		m,
	)

	// 6. Interfaces
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(m),
		middleware.GinRateLimitMiddleware(limiter, ratelimit.PerSecond(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst)),
	)
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}
	http_handler.NewContractHandler(svc).RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
	grpcSrv := grpc_server.NewServer(cfg.ServiceName, pingers...)
	pb.RegisterContractServiceServer(grpcSrv, grpc_server.NewHandler(svc))

	// 7. Start
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr())
		if err != nil {
			return err
		}
		logger.Info(gctx, "Starting gRPC server", "addr", cfg.GRPC.Addr())
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return grpcSrv.WatchHealth(gctx, 10*time.Second)
	})

	if cfg.Kafka.Enabled() {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			return err
		}
		defer producer.Close()

		relay := messaging.NewOutboxRelay(database.DB, producer, messaging.RelayConfig{
			Topic:        cfg.Kafka.Topic,
			BatchSize:    cfg.Outbox.BatchSize,
			PollInterval: time.Duration(cfg.Outbox.PollInterval) * time.Millisecond,
			Retention:    time.Duration(cfg.Outbox.RetentionHours) * time.Hour,
		}, m)
		g.Go(func() error { return relay.Run(gctx) })
	} else {
		logger.Warn(ctx, "Kafka brokers not configured, outbox relay disabled")
	}

	// 8. Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "Shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		grpcSrv.Shutdown()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
