package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PaulBabatuyi/TrustSite/internal/api"
	"github.com/PaulBabatuyi/TrustSite/internal/cache"
	"github.com/PaulBabatuyi/TrustSite/internal/config"
	"github.com/PaulBabatuyi/TrustSite/internal/database"
	"github.com/PaulBabatuyi/TrustSite/internal/media"
	"github.com/PaulBabatuyi/TrustSite/internal/middleware"
	"github.com/PaulBabatuyi/TrustSite/internal/observability"
	"github.com/PaulBabatuyi/TrustSite/internal/server"
	"github.com/PaulBabatuyi/TrustSite/internal/service"
	"github.com/PaulBabatuyi/TrustSite/internal/storage"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := observability.InitLogger(cfg.IsDev())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env)
	if err != nil {
		logger.Fatal("failed to init sentry", zap.Error(err))
	}
	defer flushSentry()
	logger = observability.WithSentry(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		flushSentry()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := observability.InitTracerProvider(cfg.TracingEnabled, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		observability.ShutdownTracerProvider(shutdownCtx, tp, logger)
	}()

	metrics, err := observability.InitMetrics()
	if err != nil {
		return err
	}

	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("record store ready", zap.String("type", string(cfg.Database.Type)))

	blobs, err := storage.NewFilesystemStorage(cfg.Storage.Path, cfg.Storage.PublicBaseURL)
	if err != nil {
		return err
	}

	var publicCache cache.Cache = cache.Nop{}
	if cfg.Cache.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.Cache.RedisURL)
		if err != nil {
			// Reads still work without the cache.
			logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			rc := cache.NewRedisCache(client, cfg.Cache.TTL, logger)
			defer rc.Close()
			publicCache = rc
		}
	}

	managers := service.NewManagers(service.Deps{
		Records:      store,
		Blobs:        blobs,
		Images:       media.NewImageProcessor(cfg.MaxImageWidth),
		Placeholders: cfg.Placeholders,
		Logger:       logger,
		Recorder:     metrics,
	})

	tokens := middleware.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	admin := server.NewAdminServer(server.Options{
		Managers:          managers,
		Tokens:            tokens,
		Cache:             publicCache,
		AdminUsername:     cfg.Auth.AdminUsername,
		AdminPassword:     cfg.Auth.AdminPassword,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		UploadConcurrency: cfg.UploadConcurrency,
		Logger:            logger,
	})

	auth := middleware.NewAuthenticator(tokens, cfg.Auth.APIKeys, server.PublicMethods()...)
	serverMetrics := metrics.GetServerMetrics()
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(observability.ServerStatsHandler(tp)),
		grpc.MaxRecvMsgSize(server.MaxRecvMsgSize(cfg.MaxUploadBytes)),
		grpc.UnaryInterceptor(middleware.ChainUnaryInterceptors(
			middleware.UnaryLoggingInterceptor(logger),
			middleware.UnaryRecoveryInterceptor(logger),
			serverMetrics.UnaryServerInterceptor(),
			auth.UnaryInterceptor(),
		)),
	)
	server.RegisterAdminService(grpcServer, admin)
	serverMetrics.InitializeMetrics(grpcServer)

	observability.StartMetricsServer(ctx, cfg.MetricsPort, metrics, logger)

	app := api.NewApp(api.NewHandlers(managers, publicCache, logger), blobs.Root(), logger)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("admin gRPC server listening", zap.String("port", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("public HTTP server listening", zap.String("port", cfg.HTTPPort))
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		stop()
		grpcServer.Stop()
		_ = app.Shutdown()
		return err
	}

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		logger.Warn("graceful stop timed out, forcing")
		grpcServer.Stop()
	}
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	return nil
}
