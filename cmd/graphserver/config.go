package main

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc/keepalive"
)

// Config holds every construction parameter and ambient setting for one
// graph-serving server process, populated by envconfig.Process under
// the GRAPHSERVER_ prefix (see main.go) and optionally seeded from a
// .env file via godotenv.
type Config struct {
	// Storage Opener construction parameters.
	Path             string `envconfig:"PATH" required:"true"`
	Partitions       string `envconfig:"PARTITIONS" required:"true"` // comma-separated u32 list
	StorageType      string `envconfig:"STORAGE_TYPE" default:"local"`
	ConfigPath       string `envconfig:"CONFIG_PATH"`
	EnableThreadpool bool   `envconfig:"ENABLE_THREADPOOL" default:"true"`

	// S3 backend settings, used only when StorageType == "s3".
	S3Endpoint        string `envconfig:"S3_ENDPOINT"`
	S3Bucket          string `envconfig:"S3_BUCKET"`
	S3Prefix          string `envconfig:"S3_PREFIX"`
	S3Region          string `envconfig:"S3_REGION"`
	S3AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle    bool   `envconfig:"S3_USE_PATH_STYLE"`

	// Transport.
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:"0.0.0.0:3000"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:"0.0.0.0:9090"`

	// Ambient logging.
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// gRPC keepalive.
	KeepAliveTime                time.Duration `envconfig:"KEEPALIVE_TIME" default:"2h"`
	KeepAliveTimeout             time.Duration `envconfig:"KEEPALIVE_TIMEOUT" default:"20s"`
	KeepAliveMinTime             time.Duration `envconfig:"KEEPALIVE_MIN_TIME" default:"5m"`
	KeepAlivePermitWithoutStream bool          `envconfig:"KEEPALIVE_PERMIT_WITHOUT_STREAM" default:"false"`

	// gRPC transport limits.
	GRPCMaxConcurrentStreams  uint32 `envconfig:"GRPC_MAX_CONCURRENT_STREAMS" default:"250"`
	GRPCInitialWindowSize     int32  `envconfig:"GRPC_INITIAL_WINDOW_SIZE" default:"1048576"`
	GRPCInitialConnWindowSize int32  `envconfig:"GRPC_INITIAL_CONN_WINDOW_SIZE" default:"1048576"`
	GRPCMaxRecvMsgSize        int    `envconfig:"GRPC_MAX_RECV_MSG_SIZE" default:"536870912"`
	GRPCMaxSendMsgSize        int    `envconfig:"GRPC_MAX_SEND_MSG_SIZE" default:"536870912"`
}

// Config validation errors.
var (
	ErrInvalidPath          = errors.New("path cannot be empty")
	ErrInvalidPartitions    = errors.New("partitions cannot be empty")
	ErrInvalidStorageType   = errors.New("storage_type must be 'local' or 's3'")
	ErrInvalidListenAddr    = errors.New("listen_addr cannot be empty")
	ErrInvalidMetricsAddr   = errors.New("metrics_addr cannot be empty")
	ErrInvalidLogFormat     = errors.New("log_format must be 'json' or 'console'")
	ErrInvalidLogLevel      = errors.New("log_level must be debug, info, warn, or error")
	ErrInvalidKeepAliveTime = errors.New("keepalive_time must be positive")
	ErrMissingS3Bucket      = errors.New("s3_bucket is required when storage_type is 's3'")
)

// ValidateConfig validates the configuration and returns an error if invalid.
func ValidateConfig(cfg *Config) error {
	if cfg.Path == "" {
		return ErrInvalidPath
	}
	if cfg.Partitions == "" {
		return ErrInvalidPartitions
	}
	if cfg.StorageType != "local" && cfg.StorageType != "s3" {
		return ErrInvalidStorageType
	}
	if cfg.StorageType == "s3" && cfg.S3Bucket == "" {
		return ErrMissingS3Bucket
	}
	if cfg.ListenAddr == "" {
		return ErrInvalidListenAddr
	}
	if cfg.MetricsAddr == "" {
		return ErrInvalidMetricsAddr
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ErrInvalidLogFormat
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" && cfg.LogLevel != "error" {
		return ErrInvalidLogLevel
	}
	if cfg.KeepAliveTime <= 0 {
		return ErrInvalidKeepAliveTime
	}
	return cfg.ValidateGRPCConfig()
}

// ParsePartitions splits the comma-separated Partitions setting into the
// assigned partition set consumed by partition.DiscoverSuffixes.
func ParsePartitions(csv string) ([]uint32, error) {
	fields := strings.Split(csv, ",")
	out := make([]uint32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, err
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

// BuildKeepaliveParams creates gRPC keepalive server parameters from config.
func BuildKeepaliveParams(cfg *Config) keepalive.ServerParameters {
	return keepalive.ServerParameters{
		Time:    cfg.KeepAliveTime,
		Timeout: cfg.KeepAliveTimeout,
	}
}

// BuildKeepalivePolicy creates gRPC keepalive enforcement policy from config.
func BuildKeepalivePolicy(cfg *Config) keepalive.EnforcementPolicy {
	return keepalive.EnforcementPolicy{
		MinTime:             cfg.KeepAliveMinTime,
		PermitWithoutStream: cfg.KeepAlivePermitWithoutStream,
	}
}

// DefaultConfig returns a Config with default values, used by tests that
// don't want to depend on the environment.
func DefaultConfig() Config {
	return Config{
		Path:                         "./data",
		Partitions:                   "0",
		StorageType:                  "local",
		EnableThreadpool:             true,
		ListenAddr:                   "0.0.0.0:3000",
		MetricsAddr:                  "0.0.0.0:9090",
		LogFormat:                    "json",
		LogLevel:                     "info",
		KeepAliveTime:                2 * time.Hour,
		KeepAliveTimeout:             20 * time.Second,
		KeepAliveMinTime:             5 * time.Minute,
		KeepAlivePermitWithoutStream: false,
		GRPCMaxConcurrentStreams:     250,
		GRPCInitialWindowSize:        1 << 20,
		GRPCInitialConnWindowSize:    1 << 20,
		GRPCMaxRecvMsgSize:           512 * 1024 * 1024,
		GRPCMaxSendMsgSize:           512 * 1024 * 1024,
	}
}
