package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/storekeeper/internal/adapter/handler"
	"github.com/rl1809/storekeeper/internal/adapter/handler/rpc"
	"github.com/rl1809/storekeeper/internal/adapter/storage"
	"github.com/rl1809/storekeeper/internal/config"
	"github.com/rl1809/storekeeper/internal/core/service"
	"github.com/rl1809/storekeeper/internal/journal"
	"github.com/rl1809/storekeeper/internal/port"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshot store
	var db *sql.DB
	var repo port.SnapshotRepository
	switch cfg.Store {
	case config.StoreMySQL:
		db, err = storage.OpenMySQL(ctx, cfg.DSN)
		if err == nil {
			repo = storage.NewSnapshotStore(db, storage.MySQL)
		}
	case config.StoreSQLite:
		db, err = storage.OpenSQLite(cfg.DSN)
		if err == nil {
			repo = storage.NewSnapshotStore(db, storage.SQLite)
		}
	}
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.String("store", cfg.Store), zap.Error(err))
	}
	if repo != nil {
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to create schema", zap.Error(err))
		}
		logger.Info("connected to snapshot store", zap.String("store", cfg.Store))
	}

	// Redis
	var rdb *redis.Client
	var redisAdapter *storage.RedisAdapter
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 20})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		redisAdapter = storage.NewRedisAdapter(rdb)
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	// Journal writer
	var mirror port.StockMirror
	if redisAdapter != nil {
		mirror = redisAdapter
	}
	writer := journal.NewWriter(repo, mirror, cfg.JournalQueue, logger.Named("journal"))
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writer.Run()
	}()

	// Services
	state := service.NewState(writer)
	if repo != nil {
		snap, err := repo.Load(ctx)
		if err != nil {
			logger.Fatal("failed to load snapshot", zap.Error(err))
		}
		if err := state.Restore(snap); err != nil {
			logger.Fatal("failed to restore snapshot", zap.Error(err))
		}
		logger.Info("restored state",
			zap.Int("items", len(snap.Items)),
			zap.Int("sales", len(snap.Sales)),
			zap.Uint64("next_id", snap.NextID))
	}

	var salesOpts []service.SalesOption
	if redisAdapter != nil {
		salesOpts = append(salesOpts, service.WithIdempotency(redisAdapter, cfg.IdempotencyTTL))
	}
	inventoryService := service.NewInventoryService(state, logger.Named("inventory"))
	salesService := service.NewSalesService(inventoryService, logger.Named("sales"), salesOpts...)
	reportService := service.NewReportService(state)

	// Initialize gRPC server
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(handler.LoggingInterceptor(logger.Named("grpc"))))
	grpcHandler := handler.NewGRPCHandler(inventoryService, salesService, reportService, logger.Named("grpc"))
	rpc.RegisterStorekeeperServer(grpcServer, grpcHandler)

	// Start gRPC server
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}

	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	// Initialize HTTP server
	var httpServer *http.Server
	if cfg.HTTPAddr != "" {
		mux := http.NewServeMux()
		handler.NewHTTPHandler(inventoryService, salesService, reportService, logger.Named("http")).Register(mux)

		httpServer = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler.LoggingMiddleware(logger.Named("http"), mux),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
			if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
				logger.Error("HTTP server error", zap.Error(err))
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Stop HTTP server
	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
		logger.Info("HTTP server stopped")
	}

	// Stop gRPC server
	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	// Drain pending changes
	writer.Close()
	<-writerDone
	logger.Info("journal drained")

	// Close connections
	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	logger.Info("connections closed")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
