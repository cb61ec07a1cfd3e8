package main

import (
	"context"
	"os"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/23skdu/graphserving/internal/storage"
)

// TestBuildBackend_Local verifies storage_type "local" (the default)
// selects a LocalBackend rooted at Path.
func TestBuildBackend_Local(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageType = "local"
	cfg.Path = t.TempDir()

	backend, err := buildBackend(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("buildBackend() error = %v", err)
	}
	if _, ok := backend.(*storage.LocalBackend); !ok {
		t.Errorf("buildBackend() returned %T, want *storage.LocalBackend", backend)
	}
}

// TestBuildBackend_S3RequiresBucket ensures the s3 backend construction
// fails fast when required configuration is missing, rather than
// producing a client that fails on first use.
func TestBuildBackend_S3RequiresBucket(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageType = "s3"
	cfg.S3Bucket = ""

	if _, err := buildBackend(context.Background(), &cfg); err == nil {
		t.Error("buildBackend() with empty S3Bucket, want error")
	}
}

// TestBuildComposer_EmptyPartitionSet exercises the full startup path
// against an empty data directory: discovery finds no eligible
// partitions and the composer builds successfully over an empty index.
func TestBuildComposer_EmptyPartitionSet(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Path = dir
	cfg.Partitions = "0,1"

	logger := zaptest.NewLogger(t)
	comp, err := buildComposer(context.Background(), &cfg, logger)
	if err != nil {
		t.Fatalf("buildComposer() error = %v", err)
	}
	if comp == nil {
		t.Fatal("buildComposer() returned nil composer")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
