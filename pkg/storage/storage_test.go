package storage_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/tuya-yu/HeartDrawing/pkg/storage"
)

// Azurite development credentials; no request is sent by these tests.
const devConn = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
	"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
	"BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func TestFinalize(t *testing.T) {
	cfg := storage.Config{ConnectionString: devConn}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.ContainerName != "drawings" {
		t.Errorf("ContainerName = %q, want drawings", cfg.ContainerName)
	}

	var empty storage.Config
	if err := empty.Finalize(nil); err == nil || !strings.Contains(err.Error(), "connection_string") {
		t.Errorf("expected connection_string error, got %v", err)
	}
}

func TestFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_STORAGE_CONTAINER", "archive")
	t.Setenv("TEST_STORAGE_CONN", devConn)

	var cfg storage.Config
	err := cfg.Finalize(&storage.Env{
		ContainerName:    "TEST_STORAGE_CONTAINER",
		ConnectionString: "TEST_STORAGE_CONN",
	})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.ContainerName != "archive" {
		t.Errorf("ContainerName = %q", cfg.ContainerName)
	}
}

func TestKeyValidation(t *testing.T) {
	cfg := storage.Config{ConnectionString: devConn}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	sys, err := storage.New(&cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if err := sys.Upload(ctx, "", strings.NewReader("x"), "image/png"); !errors.Is(err, storage.ErrEmptyKey) {
		t.Errorf("Upload empty key: %v", err)
	}
	if _, _, err := sys.Download(ctx, "assessments/../secret"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("Download traversal: %v", err)
	}
	if err := sys.Delete(ctx, ""); !errors.Is(err, storage.ErrEmptyKey) {
		t.Errorf("Delete empty key: %v", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
