package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/23skdu/graphserving/internal/composer"
	"github.com/23skdu/graphserving/internal/executor"
	"github.com/23skdu/graphserving/internal/index"
	"github.com/23skdu/graphserving/internal/logging"
	"github.com/23skdu/graphserving/internal/metadata"
	"github.com/23skdu/graphserving/internal/partition"
	"github.com/23skdu/graphserving/internal/rpc"
	"github.com/23skdu/graphserving/internal/storage"
)

func main() {
	_ = godotenv.Load() // optional; missing .env is not an error

	var cfg Config
	if err := envconfig.Process("GRAPHSERVER", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := ValidateConfig(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	comp, err := buildComposer(context.Background(), &cfg, logger)
	if err != nil {
		logger.Fatal("failed to build query composer", zap.Error(err))
	}

	go serveMetrics(cfg.MetricsAddr, logger)

	if err := serveGRPC(&cfg, comp, logger); err != nil {
		logger.Fatal("grpc server exited with error", zap.Error(err))
	}
}

// buildComposer wires the storage backend, node location index, the
// partitions it points into, and the metadata snapshot into one
// query composer.
func buildComposer(ctx context.Context, cfg *Config, logger *zap.Logger) (*composer.Composer, error) {
	assigned, err := ParsePartitions(cfg.Partitions)
	if err != nil {
		return nil, fmt.Errorf("parsing partitions: %w", err)
	}

	backend, err := buildBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("building storage backend: %w", err)
	}

	suffixes, err := partition.DiscoverSuffixes(backend, assigned)
	if err != nil {
		return nil, fmt.Errorf("discovering partitions: %w", err)
	}
	logger.Info("discovered partitions", zap.Strings("suffixes", suffixes))

	idx, err := index.Load(backend, suffixes, logger)
	if err != nil {
		return nil, fmt.Errorf("loading node location index: %w", err)
	}

	parts, err := openPartitions(suffixes)
	if err != nil {
		return nil, fmt.Errorf("opening partitions: %w", err)
	}

	meta := &metadata.Metadata{Version: "1", PartitionCount: uint32(len(parts))}
	exec := executor.New(cfg.EnableThreadpool)

	return composer.New(idx, parts, meta, exec, logger), nil
}

// buildBackend selects the Storage Opener collaborator per storage_type.
func buildBackend(ctx context.Context, cfg *Config) (storage.Backend, error) {
	switch storage.Type(cfg.StorageType) {
	case storage.TypeS3:
		return storage.NewS3Backend(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
	default:
		return storage.NewLocalBackend(cfg.Path), nil
	}
}

// openPartitions is a placeholder hook for a real Partition
// implementation keyed by on-disk suffix; the reference memio
// implementation is exercised directly by tests rather than through a
// file decoder, so a from-scratch server currently starts with zero
// partitions loaded until a production Partition decoder is wired in.
func openPartitions(suffixes []string) ([]partition.Partition, error) {
	return make([]partition.Partition, len(suffixes)), nil
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("starting metrics server", zap.String("address", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}

func serveGRPC(cfg *Config, comp *composer.Composer, logger *zap.Logger) error {
	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.ListenAddr, err)
	}

	opts := cfg.BuildGRPCServerOptions()
	opts = append(opts, grpc.ChainUnaryInterceptor(rpc.RequestIDUnaryInterceptor(logger)))
	server := grpc.NewServer(opts...)
	rpc.RegisterGraphServingServer(server, rpc.NewServer(comp))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down grpc server")
		server.GracefulStop()
	}()

	logger.Info("graph-serving server listening", zap.String("address", cfg.ListenAddr))
	return server.Serve(lis)
}
