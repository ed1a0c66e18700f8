package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/jamesprial/coffee-shop/internal/config"
	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
)

// newTestServer creates a test server with the given address and handler.
func newTestServer(addr string, handler http.Handler) *server {
	cfg := &config.Config{
		Addr:         addr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	router := NewRouter(NewErrorResponder("test", discardLogger()))
	router.Handle("/", handler)
	return NewServer(cfg, router).(*server)
}

// startServer runs s in the background and waits until it is listening.
func startServer(t *testing.T, s *server) <-chan error {
	t.Helper()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.RLock()
		listening := s.listener != nil
		s.mu.RUnlock()
		if listening {
			return errCh
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("server did not start listening")
	return nil
}

func TestServer_StartServeShutdown(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "served")
	})

	// Use port 0 to get a random available port
	srv := newTestServer("127.0.0.1:0", handler)
	errCh := startServer(t, srv)

	addr := srv.Addr()
	if addr == "127.0.0.1:0" {
		t.Fatalf("Addr() = %q, want the bound port", addr)
	}

	resp, err := http.Get("http://" + addr + "/anything")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "served" {
		t.Errorf("body = %q, want served", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start() returned %v after shutdown, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Start did not return after Shutdown")
	}

	if conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond); err == nil {
		_ = conn.Close()
		t.Error("server still accepting connections after shutdown")
	}
}

func TestServer_AddrBeforeStart(t *testing.T) {
	t.Parallel()

	srv := newTestServer(":8089", http.NotFoundHandler())
	if got := srv.Addr(); got != ":8089" {
		t.Errorf("Addr() = %q, want configured :8089", got)
	}
}

func TestServer_StartListenError(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen error: %v", err)
	}
	defer listener.Close()

	srv := newTestServer(listener.Addr().String(), http.NotFoundHandler())
	if err := srv.Start(); err == nil {
		t.Error("Start() on a taken port expected error")
	}
}

func TestServer_ShutdownWithoutDeadline(t *testing.T) {
	t.Parallel()

	srv := newTestServer("127.0.0.1:0", http.NotFoundHandler())
	startServer(t, srv)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}
}

func TestServer_ShutdownClosedServer(t *testing.T) {
	t.Parallel()

	srv := &server{}
	if err := srv.Shutdown(context.Background()); !errors.Is(err, transportcore.ErrServerClosed) {
		t.Errorf("Shutdown() error = %v, want ErrServerClosed", err)
	}
}

func TestNewServer_PanicsOnNil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    *config.Config
		router transportcore.Router
	}{
		{"nil config", nil, NewRouter(NewErrorResponder("test", discardLogger()))},
		{"nil router", &config.Config{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			defer func() {
				if recover() == nil {
					t.Error("NewServer() did not panic")
				}
			}()
			NewServer(tt.cfg, tt.router)
		})
	}
}
