package escluster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"logfleet/curator/pkg/cli"
	"logfleet/curator/pkg/config"
)

func connectConfig(host string, attempts int) config.ElasticsearchConfig {
	return config.ElasticsearchConfig{
		Host:              host,
		RequestTimeout:    2 * time.Second,
		ConnectAttempts:   attempts,
		ConnectRetryDelay: 10 * time.Millisecond,
		TLS:               config.TLSConfig{Enabled: false},
	}
}

func TestConnect_FirstAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"green"}`)
	}))
	defer srv.Close()

	client, err := Connect(context.Background(), connectConfig(srv.URL, 2), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if client == nil {
		t.Fatal("expected a client")
	}
}

func TestConnect_RecoversOnRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"status":"yellow"}`)
	}))
	defer srv.Close()

	_, err := Connect(context.Background(), connectConfig(srv.URL, 2), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Connect should recover on the second attempt: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 probe calls, got %d", calls.Load())
	}
}

func TestConnect_ExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := Connect(context.Background(), connectConfig(srv.URL, 2), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil {
		t.Fatal("expected fatal connection error")
	}

	var fatal *FatalConnectionError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalConnectionError, got %T: %v", err, err)
	}
	if fatal.Attempts != 2 {
		t.Errorf("expected 2 attempts recorded, got %d", fatal.Attempts)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 probe calls, got %d", calls.Load())
	}
	if cli.ExitCode(err) != cli.ExitConnectionError {
		t.Errorf("expected exit code %d, got %d", cli.ExitConnectionError, cli.ExitCode(err))
	}
}

func TestConnect_ContextCancelledDuringRetryDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := connectConfig(srv.URL, 2)
	cfg.ConnectRetryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := Connect(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Connect did not honor context cancellation during retry delay")
	}
}
